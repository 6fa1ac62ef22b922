// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

import (
	"net/http"
	"time"

	"github.com/cfrancis/fermwatch/internal/models"
)

// Sensors returns the sensor catalog in display order.
func (h *Handler) Sensors(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	start := time.Now()
	sensors, err := h.store.ListSensors(r.Context())
	if err != nil {
		respondStoreError(w, err, "Failed to list sensors")
		return
	}

	response := models.NewSuccessResponse(sensors, time.Since(start))
	respondJSON(w, http.StatusOK, &response)
}

// readingsData is the payload for the readings endpoint.
type readingsData struct {
	Sensor   models.Sensor    `json:"sensor"`
	Readings []models.Reading `json:"readings"`
	Count    int              `json:"count"`
}

// Readings returns raw readings for one sensor, ascending by time.
func (h *Handler) Readings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	req := ReadingsRequest{
		Sensor: r.URL.Query().Get("sensor"),
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
		Limit:  getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// The configured row cap bounds every response, including requests
	// that didn't ask for a limit at all.
	if h.config != nil {
		if maxRows := h.config.API.MaxRows; maxRows > 0 && (req.Limit <= 0 || req.Limit > maxRows) {
			req.Limit = maxRows
		}
	}

	if !h.requireDB(w) {
		return
	}

	start := time.Now()
	sensor, err := h.store.GetSensor(r.Context(), req.Sensor)
	if err != nil {
		respondStoreError(w, err, "Failed to look up sensor")
		return
	}

	window, err := parseWindow(req.Start, req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if window.IsZero() {
		window = h.defaultWindow()
	}

	readings, err := h.store.GetReadings(r.Context(), sensor.ID, window)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve readings")
		return
	}

	// Limit keeps the newest rows: trimming from the front preserves the
	// ascending order of what remains.
	if req.Limit > 0 && len(readings) > req.Limit {
		readings = readings[len(readings)-req.Limit:]
	}

	response := models.NewSuccessResponse(readingsData{
		Sensor:   sensor,
		Readings: readings,
		Count:    len(readings),
	}, time.Since(start))
	respondJSON(w, http.StatusOK, &response)
}
