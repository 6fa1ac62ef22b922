// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/models"
)

// waveform describes how demo values for one sensor move around their
// baseline.
type waveform struct {
	baseline  float64
	amplitude float64
	period    time.Duration
	noise     float64
}

// demoWaveforms are tuned to look like a healthy fermentation run.
var demoWaveforms = map[string]waveform{
	"temperature":      {baseline: 37.0, amplitude: 0.8, period: 2 * time.Hour, noise: 0.15},
	"ph":               {baseline: 6.8, amplitude: 0.3, period: 3 * time.Hour, noise: 0.05},
	"dissolved_oxygen": {baseline: 55.0, amplitude: 12.0, period: 90 * time.Minute, noise: 2.0},
	"pressure":         {baseline: 14.2, amplitude: 1.1, period: 4 * time.Hour, noise: 0.2},
}

// SeedDemoData backfills history for every cataloged sensor so a fresh
// install renders populated charts. Seeding is skipped when readings
// already exist. Gated by database.seed_demo_data in config.
func (db *DB) SeedDemoData(ctx context.Context, span time.Duration, interval time.Duration) error {
	count, err := db.CountReadings(ctx, "")
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Debug().Int64("readings", count).Msg("Demo seed skipped, data present")
		return nil
	}

	sensors, err := db.ListSensors(ctx)
	if err != nil {
		return err
	}

	if span <= 0 {
		span = 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Minute
	}

	start := time.Now().UTC().Add(-span).Truncate(interval)
	total := 0
	for _, sensor := range sensors {
		batch := generateWaveform(sensor.ID, start, span, interval)
		if err := db.InsertReadings(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
	}

	logging.Info().
		Int("readings", total).
		Int("sensors", len(sensors)).
		Dur("span", span).
		Msg("Demo data seeded")
	return nil
}

// generateWaveform produces one sensor's history: a sinusoid around the
// baseline with uniform noise. Unknown sensors get a flat line at zero
// amplitude around 1.0.
func generateWaveform(sensorID string, start time.Time, span, interval time.Duration) []models.Reading {
	wf, ok := demoWaveforms[sensorID]
	if !ok {
		wf = waveform{baseline: 1.0, period: time.Hour}
	}

	n := int(span / interval)
	readings := make([]models.Reading, 0, n)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * interval)
		phase := 2 * math.Pi * float64(at.Unix()) / wf.period.Seconds()
		value := wf.baseline + wf.amplitude*math.Sin(phase) + (rand.Float64()*2-1)*wf.noise
		readings = append(readings, models.Reading{
			SensorID:   sensorID,
			RecordedAt: at,
			Value:      value,
		})
	}
	return readings
}
