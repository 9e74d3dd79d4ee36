// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/cmd/catalog-assistant-api/handlers"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/cmd/catalog-assistant-api/middleware"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/api/grpc"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, rt *assistant.Runtime) http.Handler {
	cfg := rt.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware(logger))
	}
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"catalog-assistant"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if rt.Store == nil || rt.Store.Products.Len() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"catalog empty"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(logger, rt.Service, cfg.Assistant.MaxQueryLen)
	catalogHandler := handlers.NewCatalogHandler(logger, rt.Service.Library())
	comparisonHandler := handlers.NewComparisonHandler(logger, rt.Comparisons, rt.Audit)
	auditHandler := handlers.NewAuditHandler(logger, rt.Audit)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat/query", chatHandler.Query)
		r.Delete("/chat/cache", chatHandler.PurgeCache)
		r.Get("/intents", chatHandler.Intents)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/suppliers", catalogHandler.ListSuppliers)
			r.Get("/suppliers/{id}", catalogHandler.GetSupplier)
		})

		r.Post("/comparisons", comparisonHandler.Query)
		r.Get("/audit/events", auditHandler.Events)
	})

	// Connect routes
	path, handler := grpc.NewChatService(logger, rt.Service, cfg.Assistant.MaxQueryLen).Handler()
	r.Mount(path, handler)

	return r
}
