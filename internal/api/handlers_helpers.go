// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/cfrancis/fermwatch/internal/database"
	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/models"
	"github.com/cfrancis/fermwatch/internal/validation"
)

// sanitizeLogValue strips CR/LF from user-supplied values before they reach
// the logs, preventing log injection.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// respondJSON writes an APIResponse envelope with an ETag derived from the
// body, so clients can revalidate cheaply.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	body, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		http.Error(w, `{"status":"error","error":{"code":"SERVICE_ERROR","message":"Failed to encode response"}}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(body))
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondRawJSON writes a pre-built JSON document without the envelope. The
// chart refresh endpoint uses this: its consumers hand the body straight to
// the plotting library.
func respondRawJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to encode response", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag computes a weak ETag using FNV-1a.
func generateETag(body []byte) string {
	hash := uint32(2166136261)
	for _, b := range body {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return fmt.Sprintf(`W/"%x"`, hash)
}

// respondError writes an error envelope and logs server-side failures.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("code", code).Msg(message)
	}

	response := models.NewErrorResponse(code, message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(&response); encErr != nil {
		logging.Error().Err(encErr).Msg("Failed to write error response")
	}
}

// respondStoreError maps a data access error onto the right status code.
// Unknown sensors are a client problem; an open breaker or a lost
// connection means the database is unavailable (503, retryable); anything
// else is a database failure (500).
func respondStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, database.ErrUnknownSensor):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown sensor", nil)
	case errors.Is(err, database.ErrCircuitOpen), database.IsConnectionError(err):
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database temporarily unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", message, err)
	}
}

// requireMethod enforces the HTTP method on handlers reachable outside the
// router's method-dispatched routes.
func requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	return false
}

// requireDB responds 503 when no store is wired.
func (h *Handler) requireDB(w http.ResponseWriter) bool {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database not available", nil)
		return false
	}
	return true
}

// validateRequest runs struct validation and converts failures to API errors.
func validateRequest(req interface{}) *validation.APIError {
	if err := validation.ValidateStruct(req); err != nil {
		return err.ToAPIError()
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// parseWindow builds a TimeWindow from the optional start/end parameters.
// Values must already have passed rfc3339 validation; a parse failure here
// means the validator and this function disagree, which is a bug.
func parseWindow(start, end string) (models.TimeWindow, error) {
	var window models.TimeWindow

	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return window, fmt.Errorf("invalid start time: %w", err)
		}
		window.Start = t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return window, fmt.Errorf("invalid end time: %w", err)
		}
		window.End = t
	}

	return window, nil
}

// sensorParam reads the sensor identifier from the query string, or from the
// form body on POST requests that carry one.
func sensorParam(r *http.Request) string {
	if s := r.URL.Query().Get("sensor"); s != "" {
		return s
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			return r.PostForm.Get("sensor")
		}
	}
	return ""
}
