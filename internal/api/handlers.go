// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker/v2"

	"github.com/cfrancis/fermwatch/internal/chart"
	"github.com/cfrancis/fermwatch/internal/config"
	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/models"
	ws "github.com/cfrancis/fermwatch/internal/websocket"
)

// Store is the data access surface the handlers need. *database.BreakerDB
// satisfies it; tests may substitute a plain *database.DB or a fake.
type Store interface {
	ListSensors(ctx context.Context) ([]models.Sensor, error)
	GetSensor(ctx context.Context, sensorID string) (models.Sensor, error)
	GetReadings(ctx context.Context, sensorID string, window models.TimeWindow) ([]models.Reading, error)
	LatestReading(ctx context.Context, sensorID string) (models.Reading, error)
	CountReadings(ctx context.Context, sensorID string) (int64, error)
	Ping(ctx context.Context) error
	State() gobreaker.State
}

// Handler contains dependencies for the HTTP handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: shared response/param helpers
//   - handlers_dashboard.go: dashboard page, chart refresh, CSV download
//   - handlers_core.go: sensor catalog and readings endpoints
//   - handlers_health.go: health/liveness/readiness probes
type Handler struct {
	store     Store
	config    *config.Config
	wsHub     *ws.Hub
	colors    *chart.ColorCycle
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// The color cycle is shared across all requests so that successive chart
// refreshes for the same sensor walk the palette monotonically, the way the
// dashboard cycles trace colors on reload.
func NewHandler(store Store, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		store:     store,
		config:    cfg,
		wsHub:     wsHub,
		colors:    chart.NewColorCycle(),
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout to protect against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// configured CORS origins. Browser WebSockets always send an Origin header;
// requests without one are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Fail open when no config is wired (tests, development).
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.API.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// WebSocket upgrades the connection and registers the client with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
