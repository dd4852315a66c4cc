// internal/matching/routes.go

package matching

import (
	"github.com/gorilla/mux"

	"github.com/lonetown/lonetown-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/current", handler.GetCurrentMatch).Methods("GET")
	api.HandleFunc("/generate", handler.GenerateMatch).Methods("GET")
	api.HandleFunc("/generate", handler.ProcessDailyMatches).Methods("POST")
	api.HandleFunc("/unpin", handler.UnpinMatch).Methods("POST")

	feedback := router.PathPrefix("/api/v1/feedback").Subrouter()
	feedback.Use(authMiddleware.Authenticate)
	feedback.HandleFunc("", handler.GetFeedback).Methods("GET")
}
