// Package server provides the public entry point for initializing the Eloquo
// agent service.
//
// This package exists in pkg/ (not internal/) so that deployment wrappers can
// import it and compose the server with their own middleware.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8001", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eloquo/eloquo/agent-service/internal/analytics"
	"github.com/eloquo/eloquo/agent-service/internal/api"
	"github.com/eloquo/eloquo/agent-service/internal/api/handlers"
	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/internal/credits"
	"github.com/eloquo/eloquo/agent-service/internal/export"
	"github.com/eloquo/eloquo/agent-service/internal/gateway"
	"github.com/eloquo/eloquo/agent-service/internal/pipeline"
	"github.com/eloquo/eloquo/agent-service/internal/telemetry"
)

// Server holds the initialized Eloquo agent service.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Config is the loaded service configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all service components from the environment and returns a
// ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the service with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	if cfg.OpenRouter.APIKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY is not set; all pipeline calls will fail")
	}

	gw := gateway.New(cfg.OpenRouter)
	cr := credits.New(cfg.Credits)

	var store analytics.Store
	if cfg.Analytics.URL != "" {
		store = analytics.NewRESTStore(cfg.Analytics)
		log.Info().Str("url", cfg.Analytics.URL).Msg("✅ Analytics warehouse connected")
	} else {
		store = analytics.NewMemoryStore()
		log.Info().Msg("✅ In-memory analytics store initialized (no warehouse configured)")
	}

	opt := pipeline.NewOptimizer(gw, store)
	proj := pipeline.NewProjectPipeline(gw, cr, store)
	ref := pipeline.NewRefiner(gw)
	exp := export.New(store)

	h := handlers.New(opt, proj, ref, exp, store, cfg)
	router := api.NewRouter(h)

	return &Server{
		Handler:      router,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
