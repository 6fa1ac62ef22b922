// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Package sampler generates synthetic sensor readings for demo
// deployments. Each tick it produces one plausible value per cataloged
// sensor, stores the batch, and pushes it to connected dashboard clients.
package sampler

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/metrics"
	"github.com/cfrancis/fermwatch/internal/models"
)

// Store is the storage surface the sampler needs.
type Store interface {
	ListSensors(ctx context.Context) ([]models.Sensor, error)
	InsertReadings(ctx context.Context, readings []models.Reading) error
	CountReadings(ctx context.Context, sensorID string) (int64, error)
}

// Broadcaster pushes readings to live dashboard clients.
type Broadcaster interface {
	BroadcastReading(reading models.Reading)
	BroadcastStatsUpdate(totalReadings int64)
}

// signal describes how one sensor's synthetic values move: a slow sinusoid
// around a baseline plus uniform noise.
type signal struct {
	baseline  float64
	amplitude float64
	period    time.Duration
	noise     float64
}

var signals = map[string]signal{
	"temperature":      {baseline: 37.0, amplitude: 0.8, period: 2 * time.Hour, noise: 0.15},
	"ph":               {baseline: 6.8, amplitude: 0.3, period: 3 * time.Hour, noise: 0.05},
	"dissolved_oxygen": {baseline: 55.0, amplitude: 12.0, period: 90 * time.Minute, noise: 2.0},
	"pressure":         {baseline: 14.2, amplitude: 1.1, period: 4 * time.Hour, noise: 0.2},
}

// Sampler produces synthetic readings at a fixed interval.
type Sampler struct {
	store       Store
	broadcaster Broadcaster
	interval    time.Duration
	limiter     *rate.Limiter
}

// New creates a sampler. The rate limiter caps bursts when ticks pile up
// behind a slow insert, so catch-up never hammers the database.
func New(store Store, broadcaster Broadcaster, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Sampler{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		limiter:     rate.NewLimiter(rate.Every(interval/2), 2),
	}
}

// RunWithContext runs the sampler until the context is canceled. Designed
// for suture supervision; insert failures are counted and logged but do not
// stop the loop.
func (s *Sampler) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", s.interval).Msg("Sampler started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("component", "sampler").Msg("sampler stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			s.tick(ctx, now.UTC())
		}
	}
}

// tick generates and stores one reading per sensor.
func (s *Sampler) tick(ctx context.Context, now time.Time) {
	sensors, err := s.store.ListSensors(ctx)
	if err != nil {
		metrics.SamplerErrors.Inc()
		logging.Error().Err(err).Msg("sampler failed to list sensors")
		return
	}

	batch := make([]models.Reading, 0, len(sensors))
	for _, sensor := range sensors {
		batch = append(batch, models.Reading{
			SensorID:   sensor.ID,
			RecordedAt: now,
			Value:      valueAt(sensor.ID, now),
		})
	}

	if err := s.store.InsertReadings(ctx, batch); err != nil {
		metrics.SamplerErrors.Inc()
		logging.Error().Err(err).Msg("sampler failed to insert readings")
		return
	}

	for _, reading := range batch {
		metrics.SamplerReadings.WithLabelValues(reading.SensorID).Inc()
		if s.broadcaster != nil {
			s.broadcaster.BroadcastReading(reading)
		}
	}

	if s.broadcaster != nil {
		if total, err := s.store.CountReadings(ctx, ""); err == nil {
			s.broadcaster.BroadcastStatsUpdate(total)
		}
	}
}

// valueAt computes the synthetic value for a sensor at a point in time.
// Unknown sensors idle at 1.0 so custom catalog entries still chart.
func valueAt(sensorID string, at time.Time) float64 {
	sig, ok := signals[sensorID]
	if !ok {
		sig = signal{baseline: 1.0, period: time.Hour}
	}
	phase := 2 * math.Pi * float64(at.Unix()) / sig.period.Seconds()
	return sig.baseline + sig.amplitude*math.Sin(phase) + (rand.Float64()*2-1)*sig.noise
}
