// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"

	"github.com/lonetown/lonetown-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/assessment", handler.CompleteAssessment).Methods("POST")
	api.HandleFunc("/user/state", handler.GetUserState).Methods("GET")
}
