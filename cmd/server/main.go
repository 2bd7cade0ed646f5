package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"writeflow.com/emotion-board/database"
	"writeflow.com/emotion-board/handlers"
	"writeflow.com/emotion-board/logger"
	"writeflow.com/emotion-board/routes"
	"writeflow.com/emotion-board/services"
	"writeflow.com/emotion-board/store"
)

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logger.Log.Warnf("invalid duration in %s, using default %s", key, fallback)
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("no .env file found, reading from environment")
	}
	logger.Init()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Log.Fatal("JWT_SECRET not set")
	}
	tokens := services.NewTokenService(
		secret,
		envDuration("JWT_ACCESS_TTL", 30*time.Minute),
		envDuration("JWT_REFRESH_TTL", 14*24*time.Hour),
	)

	var users services.UserStore
	var posts services.PostStore
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("DB_HOST") == "" {
		logger.Log.Warn("no database configured, using in-memory store")
		mem := store.NewMemStore()
		users, posts = mem, mem
	} else {
		db, err := database.ConnectDB()
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to database")
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			logger.Log.WithError(err).Fatal("failed to run migrations")
		}
		sqlStore := store.NewSQLStore(db)
		users, posts = sqlStore, sqlStore
	}

	var notifier services.Notifier
	if credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH"); credPath != "" {
		if err := services.InitFirebase(credPath); err != nil {
			logger.Log.WithError(err).Warn("Firebase init failed, moderation notices disabled")
		} else {
			notifier = services.NewFCMNotifier(users)
		}
	}

	auth := services.NewAuthService(users, tokens)
	engine := services.NewPostEngine(users, posts, notifier)

	router := mux.NewRouter()
	router.Use(handlers.Authenticate(tokens, users))
	routes.CreateAuthRoutes(auth, users, router)
	routes.CreatePostRoutes(engine, router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Log.Infof("server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("listen failed")
		}
	}()

	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Fatal("forced shutdown")
	}

	logger.Log.Info("server exited")
}
