package routes

import (
	"github.com/gorilla/mux"
	"writeflow.com/emotion-board/handlers"
	"writeflow.com/emotion-board/services"
)

func CreateAuthRoutes(auth *services.AuthService, users services.UserStore, router *mux.Router) *mux.Router {
	router.HandleFunc("/api/auth/signup", handlers.Signup(auth)).Methods("POST")
	router.HandleFunc("/api/auth/login", handlers.Login(auth)).Methods("POST")
	router.HandleFunc("/api/auth/refresh", handlers.Refresh(auth)).Methods("POST")

	router.HandleFunc("/api/devices/token", handlers.RegisterDeviceToken(users)).Methods("POST")

	return router
}
