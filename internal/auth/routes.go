// internal/auth/routes.go

package auth

import "github.com/gorilla/mux"

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/register", handler.Register).Methods("POST")
	api.HandleFunc("/login", handler.Login).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/me", handler.Me).Methods("GET")
}
