// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Package api provides the HTTP surface: the dashboard page, the chart
// refresh and CSV export endpoints, a small JSON API, and health probes.
// Routing uses the Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cfrancis/fermwatch/internal/middleware"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler and middleware factory.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMW}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler form, so the middleware package works
// with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))  // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)                 // real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)              // recover from handler panics
	r.Use(router.chiMiddleware.CORS())          // global so OPTIONS preflight works

	// Dashboard routes. No rate limit: the page is the product, and the
	// refresh endpoint is what the page's buttons hammer.
	r.Get("/", router.handler.Index)
	r.Get("/refresh", router.handler.Refresh)
	r.Post("/refresh", router.handler.Refresh)
	r.Get("/download", router.handler.DownloadCSV)

	// Health endpoints, kept outside the API rate limit so probes never
	// get throttled out of rotation.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// JSON API.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/sensors", router.handler.Sensors)
		r.Get("/readings", router.handler.Readings)
		r.Get("/ws", router.handler.WebSocket)
	})

	// Prometheus metrics.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
