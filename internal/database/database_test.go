// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cfrancis/fermwatch/internal/config"
	"github.com/cfrancis/fermwatch/internal/metrics"
	"github.com/cfrancis/fermwatch/internal/models"
)

// setupTestDB creates an in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close: %v", err)
		}
	})
	return db
}

func insertTestReadings(t *testing.T, db *DB, sensorID string, base time.Time, values []float64) {
	t.Helper()

	readings := make([]models.Reading, len(values))
	for i, v := range values {
		readings[i] = models.Reading{
			SensorID:   sensorID,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
			Value:      v,
		}
	}
	if err := db.InsertReadings(context.Background(), readings); err != nil {
		t.Fatalf("failed to insert readings: %v", err)
	}
}

func TestNewSeedsSensorCatalog(t *testing.T) {
	db := setupTestDB(t)

	sensors, err := db.ListSensors(context.Background())
	if err != nil {
		t.Fatalf("ListSensors failed: %v", err)
	}
	if len(sensors) != 4 {
		t.Fatalf("expected 4 seeded sensors, got %d", len(sensors))
	}
	if !sort.SliceIsSorted(sensors, func(i, j int) bool {
		return sensors[i].Position < sensors[j].Position
	}) {
		t.Error("sensors not ordered by position")
	}
}

func TestGetSensor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s, err := db.GetSensor(ctx, "ph")
	if err != nil {
		t.Fatalf("GetSensor failed: %v", err)
	}
	if s.Title != "pH" {
		t.Errorf("title = %q, want pH", s.Title)
	}

	_, err = db.GetSensor(ctx, "nonexistent")
	if !errors.Is(err, ErrUnknownSensor) {
		t.Errorf("expected ErrUnknownSensor, got %v", err)
	}
}

func TestGetReadingsOrderedAscending(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of chronological order.
	readings := []models.Reading{
		{SensorID: "temperature", RecordedAt: base.Add(2 * time.Minute), Value: 37.2},
		{SensorID: "temperature", RecordedAt: base, Value: 37.0},
		{SensorID: "temperature", RecordedAt: base.Add(time.Minute), Value: 37.1},
	}
	if err := db.InsertReadings(ctx, readings); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := db.GetReadings(ctx, "temperature", models.TimeWindow{})
	if err != nil {
		t.Fatalf("GetReadings failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].RecordedAt.Before(got[i-1].RecordedAt) {
			t.Errorf("readings not ascending at index %d: %v before %v",
				i, got[i].RecordedAt, got[i-1].RecordedAt)
		}
	}
}

func TestGetReadingsWindowBounds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	insertTestReadings(t, db, "ph", base, []float64{6.5, 6.6, 6.7, 6.8, 6.9})

	window := models.TimeWindow{
		Start: base.Add(time.Minute),
		End:   base.Add(3 * time.Minute),
	}
	got, err := db.GetReadings(ctx, "ph", window)
	if err != nil {
		t.Fatalf("GetReadings failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 readings in window (bounds inclusive), got %d", len(got))
	}
	for _, r := range got {
		if !window.Contains(r.RecordedAt) {
			t.Errorf("reading at %v outside window", r.RecordedAt)
		}
	}
}

func TestGetReadingsEmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	insertTestReadings(t, db, "pressure", base, []float64{14.1, 14.2})

	got, err := db.GetReadings(ctx, "pressure", models.TimeWindow{Start: base, End: base})
	if err != nil {
		t.Fatalf("empty window should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty window returned %d readings, want 0", len(got))
	}
}

func TestGetReadingsFiltersSensor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	insertTestReadings(t, db, "temperature", base, []float64{37.0})
	insertTestReadings(t, db, "ph", base, []float64{6.8})

	got, err := db.GetReadings(ctx, "ph", models.TimeWindow{})
	if err != nil {
		t.Fatalf("GetReadings failed: %v", err)
	}
	if len(got) != 1 || got[0].SensorID != "ph" {
		t.Errorf("expected only ph readings, got %+v", got)
	}
}

func TestLatestReading(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	insertTestReadings(t, db, "dissolved_oxygen", base, []float64{50, 51, 52})

	latest, err := db.LatestReading(ctx, "dissolved_oxygen")
	if err != nil {
		t.Fatalf("LatestReading failed: %v", err)
	}
	if latest.Value != 52 {
		t.Errorf("latest value = %v, want 52", latest.Value)
	}

	if _, err := db.LatestReading(ctx, "temperature"); err == nil {
		t.Error("expected error for sensor with no readings")
	}
}

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx, 2*time.Hour, time.Minute); err != nil {
		t.Fatalf("SeedDemoData failed: %v", err)
	}

	count, err := db.CountReadings(ctx, "")
	if err != nil {
		t.Fatalf("CountReadings failed: %v", err)
	}
	// 4 sensors x 120 minutes
	if count != 480 {
		t.Errorf("seeded count = %d, want 480", count)
	}

	// Seeding again must be a no-op.
	if err := db.SeedDemoData(ctx, 2*time.Hour, time.Minute); err != nil {
		t.Fatalf("second SeedDemoData failed: %v", err)
	}
	again, err := db.CountReadings(ctx, "")
	if err != nil {
		t.Fatalf("CountReadings failed: %v", err)
	}
	if again != count {
		t.Errorf("re-seed changed count: %d -> %d", count, again)
	}
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("syntax error"), false},
		{errors.New("driver: bad connection"), true},
		{errors.New("sql: database is closed"), true},
	}
	for _, tc := range cases {
		if got := IsConnectionError(tc.err); got != tc.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestQueryMetricsRecorded(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	errorsBefore := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("list_sensors"))

	if _, err := db.ListSensors(ctx); err != nil {
		t.Fatalf("ListSensors failed: %v", err)
	}
	if got := testutil.CollectAndCount(metrics.DBQueryDuration); got == 0 {
		t.Error("expected query duration to be observed")
	}
	if got := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("list_sensors")); got != errorsBefore {
		t.Errorf("successful query counted as error: %v -> %v", errorsBefore, got)
	}

	// Unknown sensors are client errors, not database failures.
	missBefore := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("get_sensor"))
	if _, err := db.GetSensor(ctx, "agitator"); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("expected ErrUnknownSensor, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("get_sensor")); got != missBefore {
		t.Errorf("catalog miss counted as error: %v -> %v", missBefore, got)
	}

	// Queries against a closed database count as errors.
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := db.ListSensors(ctx); err == nil {
		t.Fatal("expected error from closed database")
	}
	if got := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("list_sensors")); got != errorsBefore+1 {
		t.Errorf("failed query not counted: %v -> %v", errorsBefore, got)
	}
}
