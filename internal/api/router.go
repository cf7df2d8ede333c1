// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldscope/fieldscope/internal/config"
	"github.com/fieldscope/fieldscope/internal/metrics"
	"github.com/fieldscope/fieldscope/internal/middleware"
)

// Router assembles the HTTP surface: handler, middleware stack, routes.
type Router struct {
	handler *Handler
	cfg     *config.APIConfig
}

// NewRouter creates a router around the given handler.
func NewRouter(handler *Handler, cfg *config.APIConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the chi route tree.
//
// Probes and metrics sit outside the rate-limited group: monitoring must
// keep working when a client has burned the API budget.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Operational probes.
	r.Get("/health", router.handler.Health)
	r.Get("/ready", router.handler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Signal data endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		if !router.cfg.RateLimitDisabled {
			r.Use(httprate.Limit(
				router.cfg.RateLimitReqs,
				router.cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(rateLimitExceeded),
			))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/signals", router.handler.Signals)
		r.Get("/signals/summary", router.handler.Summary)
		r.Post("/signals/preview", router.handler.Preview)
		r.Post("/snapshot/refresh", router.handler.Refresh)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	return r
}

// rateLimitExceeded answers a throttled request with the standard
// envelope instead of httprate's plain-text default.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimitHit(r.URL.Path)
	writeError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded")
}
