// Package httptransport exposes the record registry over HTTP.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workledger/internal/platform/health"
	"workledger/internal/platform/metrics"
	"workledger/internal/platform/middleware"
)

// RouterConfig carries the cross-cutting dependencies for the HTTP layer.
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.TokenValidator
	Health    *health.Handler
}

// NewRouter wires all endpoints with the middleware stack. Reads are public;
// writes require a valid bearer token.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Anyone can read records and the running total.
	r.Get("/records/total", h.handleTotalRecords)
	r.Get("/records/{id}", h.handleGetRecord)

	// Creating and verifying records requires an authenticated caller.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Metrics, cfg.Logger))
		r.Post("/records", h.handleAddRecord)
		r.Post("/records/{id}/verify", h.handleVerifyRecord)
	})

	return r
}
