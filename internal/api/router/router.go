package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mahefa-ra/agentwatch/internal/api/handlers"
	"github.com/mahefa-ra/agentwatch/internal/api/middleware"
	"github.com/mahefa-ra/agentwatch/internal/config"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/metrics"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Alert     *handlers.AlertHandler
	Threshold *handlers.ThresholdHandler
	Audit     *handlers.AuditHandler
	Agent     *handlers.AgentHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Health checks and metrics
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Get("/summary", h.Alert.Summary)
			r.Get("/dismissed", h.Alert.ListDismissed)
			r.Post("/evaluate", h.Alert.Evaluate)
			r.Post("/{id}/dismiss", h.Alert.Dismiss)
			r.Post("/{id}/restore", h.Alert.Restore)
		})

		r.Route("/thresholds", func(r chi.Router) {
			r.Get("/", h.Threshold.Get)
			r.Put("/", h.Threshold.Update)
			r.Post("/reset", h.Threshold.Reset)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", h.Audit.List)
			r.Post("/", h.Audit.Record)
		})

		r.Get("/agents", h.Agent.List)
	})

	return r
}
