package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Tracked URL routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/urls", handler.ListURLs).Methods("GET")
	api.HandleFunc("/urls", handler.AddURL).Methods("POST")
	api.HandleFunc("/urls", handler.RemoveURL).Methods("DELETE")
	api.HandleFunc("/check", handler.CheckNow).Methods("POST")

	return r
}
