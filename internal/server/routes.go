package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokesearch/internal/handlers"
	"pokesearch/internal/handlers/api"
	"pokesearch/internal/jobs"
	"pokesearch/internal/middleware"
	"pokesearch/internal/query"
	"pokesearch/internal/search"
	"pokesearch/internal/storage"
)

// Deps are the services routes are wired to.
type Deps struct {
	Service  *search.Service
	Lookups  *query.Client
	Store    storage.Storage
	Upstream *jobs.UpstreamChecker // nil when probing is disabled
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(deps.Service, s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Store)
	apiSearchHandler := api.NewSearchHandler(deps.Service, s.Cfg.RenderWait)

	var upstream api.StatusSource
	if deps.Upstream != nil {
		upstream = deps.Upstream
	}
	apiHealthHandler := api.NewHealthHandler(upstream, deps.Lookups)

	// Probe and metrics routes
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Page routes
	s.App.Get("/", middleware.Visitor, searchHandler.Index)
	s.App.Post("/search", middleware.Visitor, searchHandler.Submit)

	// JSON API
	apiGroup := s.App.Group("/api", middleware.Visitor)
	apiGroup.Get("/pokemon", apiSearchHandler.Pokemon)
	apiGroup.Post("/search", apiSearchHandler.Submit)
	apiGroup.Get("/recent", apiSearchHandler.Recent)
	apiGroup.Get("/health", apiHealthHandler.Check)
}
