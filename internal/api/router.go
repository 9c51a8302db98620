// Package api assembles the HTTP router for the Eloquo agent service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eloquo/eloquo/agent-service/internal/api/handlers"
	"github.com/eloquo/eloquo/agent-service/internal/api/middleware"
	"github.com/eloquo/eloquo/agent-service/internal/metrics"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Pipelines
	r.Post("/optimize", h.Optimize)
	r.Post("/project-protocol", h.ProjectProtocol)
	r.Post("/refine", h.Refine)

	// Feedback & history
	r.Post("/rate", h.Rate)
	r.Get("/export", h.Export)

	// Health & observability
	r.Get("/health", h.Health)
	r.Get("/admin/metrics", h.AdminMetrics)
	r.Method("GET", "/metrics", metrics.Handler())

	return r
}
