// SPDX-License-Identifier: MIT

// Package api exposes the storefront attribution and pricing core over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phantomlabs/phantom/internal/admin"
	"github.com/phantomlabs/phantom/internal/api/middleware"
	"github.com/phantomlabs/phantom/internal/catalog"
	"github.com/phantomlabs/phantom/internal/config"
	"github.com/phantomlabs/phantom/internal/experiment"
	"github.com/phantomlabs/phantom/internal/health"
	"github.com/phantomlabs/phantom/internal/ingest"
	"github.com/phantomlabs/phantom/internal/pricing"
	"github.com/phantomlabs/phantom/internal/session"
)

// SessionCookieName is the browser cookie carrying the session token.
const SessionCookieName = "phantom_session_id"

// Deps bundles everything the HTTP surface needs. Catalog and Admin may be
// nil; their routes then answer 502 / 404 respectively.
type Deps struct {
	Sessions    *session.Store
	Experiments *experiment.Registry
	Gateway     *ingest.Gateway
	Pricing     *pricing.Orchestrator
	Catalog     *catalog.Client
	Admin       *admin.Store
	Health      *health.Manager
}

// Server is the HTTP surface of the daemon.
type Server struct {
	cfg  config.AppConfig
	deps Deps
}

// New creates a server. Call Handler to obtain the routed http.Handler.
func New(cfg config.AppConfig, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps}
}

// Handler builds the chi router with the canonical middleware stack and all
// routes registered.
func (s *Server) Handler() http.Handler {
	tracingService := ""
	if s.cfg.TracingEnabled {
		tracingService = "phantom"
	}

	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: tracingService,
		EnableLogging:  true,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSessionBootstrap)
		r.Post("/session", s.handleSessionBind)

		r.Group(func(r chi.Router) {
			if s.cfg.RateLimitEnabled {
				r.Use(middleware.IngestRateLimit(s.cfg.RateLimitPerMin))
			}
			r.Post("/ingest", s.handleIngest)
		})

		r.Get("/pricing", s.handlePricing)

		r.Get("/products", s.handleProductsByType)
		r.Get("/products/{productID}", s.handleProductByID)

		r.Get("/experiments", s.handleExperimentsList)
		r.Post("/experiments/{experimentID}/stop", s.handleExperimentStop)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/tasks", s.handleTasksList)
			r.Post("/tasks", s.handleTaskCreate)
			r.Get("/experiments", s.handleExperimentDefsList)
			r.Post("/experiments", s.handleExperimentDefCreate)
		})
	})

	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}
