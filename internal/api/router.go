// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/middleware"
)

// Router wires handlers and middleware into the Chi route tree.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates a Router for the given handler and security configuration.
func NewRouter(handler *Handler, security *config.SecurityConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewChiMiddleware(security),
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	// Health endpoints get a permissive rate limit so monitoring can poll
	// frequently without tripping the data-endpoint limiter.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(securityHeaders)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Dashboard tab endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(securityHeaders)
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/overview", router.handler.Overview)
		r.Get("/procedures", router.handler.Procedures)
		r.Get("/categories", router.handler.Categories)
		r.Get("/market-analysis", router.handler.MarketAnalysis)
		r.Get("/growth", router.handler.Growth)
		r.Get("/demographics", router.handler.Demographics)
		r.Get("/companies", router.handler.Companies)
		r.Get("/metro-markets", router.handler.MetroMarkets)
		r.Get("/news", router.handler.News)
		r.Get("/stats", router.handler.Stats)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
