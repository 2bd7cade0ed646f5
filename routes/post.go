package routes

import (
	"github.com/gorilla/mux"
	"writeflow.com/emotion-board/handlers"
	"writeflow.com/emotion-board/services"
)

func CreatePostRoutes(engine *services.PostEngine, router *mux.Router) *mux.Router {
	router.HandleFunc("/api/posts/stats/emotions", handlers.EmotionStats(engine)).Methods("GET")
	router.HandleFunc("/api/posts/meta/emotions", handlers.EmotionCodes()).Methods("GET")
	router.HandleFunc("/api/posts/meta/buttons", handlers.ButtonCodes()).Methods("GET")

	router.HandleFunc("/api/posts/me", handlers.ListMyPosts(engine)).Methods("GET")
	router.HandleFunc("/api/posts", handlers.CreatePost(engine)).Methods("POST")
	router.HandleFunc("/api/posts", handlers.ListPosts(engine)).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}", handlers.GetPost(engine)).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}", handlers.DeletePost(engine)).Methods("DELETE")
	router.HandleFunc("/api/posts/{postId:[0-9]+}/buttons/{buttonType}", handlers.ClickButton(engine)).Methods("POST")
	router.HandleFunc("/api/posts/{postId:[0-9]+}/report", handlers.ReportPost(engine)).Methods("POST")

	return router
}
