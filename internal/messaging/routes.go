// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"

	"github.com/lonetown/lonetown-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches/{matchId}/messages").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.ListMessages).Methods("GET")
	api.HandleFunc("", handler.SendMessage).Methods("POST")
}
