// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/metrics"
	"github.com/cfrancis/fermwatch/internal/models"
)

// ErrCircuitOpen is returned when the breaker is rejecting calls. Handlers
// map it to the same 5xx surface as a direct connection failure.
var ErrCircuitOpen = errors.New("database circuit breaker open")

// BreakerDB wraps read access with a circuit breaker so a dead database
// sheds load fast instead of stacking requests on pool waits. Writes
// (InsertReadings) bypass the breaker: the sampler already paces itself
// and a dropped sample is worse than a slow one.
type BreakerDB struct {
	db *DB
	cb *gobreaker.CircuitBreaker[interface{}]
}

// NewBreakerDB wraps a DB with the standard breaker settings: trips when at
// least 60% of a 10+ request window fails, holds open for 2 minutes, then
// allows 3 probe requests.
func NewBreakerDB(db *DB) *BreakerDB {
	settings := gobreaker.Settings{
		Name:        "database",
		MaxRequests: 3,               // Allow 3 probe requests in half-open state
		Interval:    time.Minute,     // Reset counts after 1 minute in closed state
		Timeout:     2 * time.Minute, // Wait 2 minutes before open -> half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// Unknown sensors and empty results are not database health
			// signals.
			return err == nil || errors.Is(err, ErrUnknownSensor)
		},
	}

	return &BreakerDB{
		db: db,
		cb: gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// breakerStateValue maps breaker states to the gauge encoding
// (0 closed, 1 half-open, 2 open).
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// execute runs fn through the breaker, translating open-circuit rejections
// to ErrCircuitOpen.
func (b *BreakerDB) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}

// ListSensors delegates through the breaker.
func (b *BreakerDB) ListSensors(ctx context.Context) ([]models.Sensor, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.db.ListSensors(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Sensor), nil
}

// GetSensor delegates through the breaker.
func (b *BreakerDB) GetSensor(ctx context.Context, sensorID string) (models.Sensor, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.db.GetSensor(ctx, sensorID)
	})
	if err != nil {
		return models.Sensor{}, err
	}
	return result.(models.Sensor), nil
}

// GetReadings delegates through the breaker.
func (b *BreakerDB) GetReadings(ctx context.Context, sensorID string, window models.TimeWindow) ([]models.Reading, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.db.GetReadings(ctx, sensorID, window)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Reading), nil
}

// LatestReading delegates through the breaker.
func (b *BreakerDB) LatestReading(ctx context.Context, sensorID string) (models.Reading, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.db.LatestReading(ctx, sensorID)
	})
	if err != nil {
		return models.Reading{}, err
	}
	return result.(models.Reading), nil
}

// CountReadings delegates through the breaker.
func (b *BreakerDB) CountReadings(ctx context.Context, sensorID string) (int64, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.db.CountReadings(ctx, sensorID)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// InsertReadings bypasses the breaker and writes directly.
func (b *BreakerDB) InsertReadings(ctx context.Context, readings []models.Reading) error {
	return b.db.InsertReadings(ctx, readings)
}

// Ping bypasses the breaker; readiness probes should see the raw state.
func (b *BreakerDB) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

// State returns the breaker's current state for health reporting.
func (b *BreakerDB) State() gobreaker.State {
	return b.cb.State()
}
