// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Package models defines the core data types shared across FermWatch:
// sensor descriptors, time-series readings, time windows, and the
// standardized API response envelope.
package models

import (
	"time"
)

// Sensor describes one monitored bioreactor channel. Position determines
// dashboard ordering and the initial chart color assignment.
type Sensor struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Unit     string `json:"unit"`
	Position int    `json:"position"`
}

// Reading is a single time-series sample. Readings are immutable once
// stored; the query layer always returns them ordered by RecordedAt
// ascending.
type Reading struct {
	SensorID   string    `json:"sensor_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Value      float64   `json:"value"`
}

// TimeWindow selects the half of history a query covers. A zero Start or
// End leaves that side unbounded. Start equal to End selects nothing.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether neither bound is set.
func (w TimeWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// IsEmpty reports whether the window selects no rows: both bounds set and
// Start >= End is empty except for the unbounded cases handled by the
// query layer.
func (w TimeWindow) IsEmpty() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && !w.Start.Before(w.End)
}

// Contains reports whether t falls inside the window. Bounds are
// inclusive on both sides to match the storage query.
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// DefaultSensors are the four channels the original deployment monitored.
// They are seeded into the database on first start.
func DefaultSensors() []Sensor {
	return []Sensor{
		{ID: "temperature", Title: "Temperature", Unit: "Celsius", Position: 0},
		{ID: "ph", Title: "pH", Unit: "pH", Position: 1},
		{ID: "dissolved_oxygen", Title: "Dissolved Oxygen", Unit: "%", Position: 2},
		{ID: "pressure", Title: "Pressure", Unit: "psi", Position: 3},
	}
}
