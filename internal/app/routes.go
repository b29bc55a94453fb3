package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"commit-relay/internal/handlers"
	"commit-relay/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/", h.HandleRoot).Methods(http.MethodGet)
	router.HandleFunc("/github", h.HandleHookInfo).Methods(http.MethodGet)
	router.HandleFunc("/github", h.HandleHook).Methods(http.MethodPost)
	router.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
}
