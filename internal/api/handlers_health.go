// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cfrancis/fermwatch/internal/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Health reports overall service health, including the database circuit
// breaker state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	breakerState := gobreaker.StateClosed
	if h.store != nil {
		breakerState = h.store.State()
	}

	status := "healthy"
	if !dbConnected || breakerState == gobreaker.StateOpen {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		BreakerState:      breakerState.String(),
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}

	response := models.NewSuccessResponse(health, 0)
	respondJSON(w, http.StatusOK, &response)
}

// HealthLive is the liveness probe. It returns 200 whenever the process is
// up, independent of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	response := models.NewSuccessResponse(map[string]string{"status": "alive"}, 0)
	respondJSON(w, http.StatusOK, &response)
}

// HealthReady is the readiness probe. It fails when the database is
// unreachable or the breaker is open, taking the instance out of rotation
// without restarting it.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if h.store == nil || h.store.Ping(r.Context()) != nil || h.store.State() == gobreaker.StateOpen {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database not ready", nil)
		return
	}

	response := models.NewSuccessResponse(map[string]string{"status": "ready"}, 0)
	respondJSON(w, http.StatusOK, &response)
}
