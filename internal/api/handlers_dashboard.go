// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

import (
	"embed"
	"encoding/csv"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/cfrancis/fermwatch/internal/chart"
	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/metrics"
	"github.com/cfrancis/fermwatch/internal/models"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

// sensorPanel is the per-sensor payload handed to the dashboard template.
// FigureJSON is a marshalled chart.Figure; template.JS keeps html/template
// from escaping it inside the inline script.
type sensorPanel struct {
	ID         string
	Title      string
	Unit       string
	FigureJSON template.JS
}

// indexData is the root template payload.
type indexData struct {
	Panels      []sensorPanel
	GeneratedAt string
}

// Index renders the dashboard page with one embedded chart per sensor.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	sensors, err := h.store.ListSensors(r.Context())
	if err != nil {
		respondStoreError(w, err, "Failed to list sensors")
		return
	}

	window := h.defaultWindow()
	panels := make([]sensorPanel, 0, len(sensors))
	for _, sensor := range sensors {
		readings, err := h.store.GetReadings(r.Context(), sensor.ID, window)
		if err != nil {
			respondStoreError(w, err, "Failed to retrieve readings")
			return
		}

		// Each sensor starts at its catalog position in the palette;
		// refreshes advance from there.
		h.colors.Seed(sensor.ID, sensor.Position)
		figure := chart.Build(sensor, readings, h.colors.Current(sensor.ID))

		body, err := json.Marshal(figure)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to encode chart", err)
			return
		}

		panels = append(panels, sensorPanel{
			ID:         sensor.ID,
			Title:      sensor.Title,
			Unit:       sensor.Unit,
			FigureJSON: template.JS(body), //nolint:gosec // marshalled from our own structs
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	data := indexData{
		Panels:      panels,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		logging.Error().Err(err).Msg("Failed to render dashboard")
	}
}

// Refresh rebuilds one sensor's chart and returns the bare figure JSON.
// Each call advances the sensor's color index, so consecutive refreshes
// produce visibly different traces. Accepts GET and POST; the dashboard's
// refresh button POSTs, deep links GET.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	req := RefreshRequest{
		Sensor: sensorParam(r),
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if !h.requireDB(w) {
		return
	}

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

	h.colors.Seed(sensor.ID, sensor.Position)
	figure := chart.Build(sensor, readings, h.colors.Next(sensor.ID))

	metrics.ChartRefreshes.WithLabelValues(sensor.ID).Inc()
	logging.Debug().
		Str("sensor", sensor.ID).
		Int("readings", len(readings)).
		Msg("Chart refreshed")

	respondRawJSON(w, http.StatusOK, figure)
}

// DownloadCSV streams a sensor's readings as a CSV attachment with a
// time,value header. Timestamps are RFC3339 in UTC.
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	req := DownloadRequest{
		Sensor: r.URL.Query().Get("sensor"),
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if !h.requireDB(w) {
		return
	}

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

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sensor.ID+`.csv"`)
	w.Header().Set("Cache-Control", "no-cache")

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "value"}); err != nil {
		logging.Error().Err(err).Msg("Failed to write CSV header")
		return
	}
	for i := range readings {
		row := []string{
			readings[i].RecordedAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(readings[i].Value, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			logging.Error().Err(err).Msg("Failed to write CSV row")
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Error().Err(err).Msg("Failed to flush CSV")
		return
	}

	metrics.CSVDownloads.WithLabelValues(sensor.ID).Inc()
}

// defaultWindow returns the window used when a request carries no bounds.
// A zero DefaultWindow means unbounded, full history.
func (h *Handler) defaultWindow() models.TimeWindow {
	if h.config == nil || h.config.API.DefaultWindow <= 0 {
		return models.TimeWindow{}
	}
	now := time.Now().UTC()
	return models.TimeWindow{Start: now.Add(-h.config.API.DefaultWindow), End: now}
}
