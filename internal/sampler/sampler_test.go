// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cfrancis/fermwatch/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	readings []models.Reading
}

func (f *fakeStore) ListSensors(ctx context.Context) ([]models.Sensor, error) {
	return models.DefaultSensors(), nil
}

func (f *fakeStore) InsertReadings(ctx context.Context, readings []models.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings = append(f.readings, readings...)
	return nil
}

func (f *fakeStore) CountReadings(ctx context.Context, sensorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.readings)), nil
}

func (f *fakeStore) stored() []models.Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Reading, len(f.readings))
	copy(out, f.readings)
	return out
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	readings []models.Reading
	stats    []int64
}

func (f *fakeBroadcaster) BroadcastReading(reading models.Reading) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings = append(f.readings, reading)
}

func (f *fakeBroadcaster) BroadcastStatsUpdate(total int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, total)
}

func TestSamplerTick(t *testing.T) {
	store := &fakeStore{}
	bc := &fakeBroadcaster{}
	s := New(store, bc, time.Second)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	s.tick(context.Background(), now)

	stored := store.stored()
	if len(stored) != 4 {
		t.Fatalf("expected 4 readings per tick, got %d", len(stored))
	}
	for _, r := range stored {
		if !r.RecordedAt.Equal(now) {
			t.Errorf("reading timestamp = %v, want %v", r.RecordedAt, now)
		}
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if len(bc.readings) != 4 {
		t.Errorf("expected 4 broadcasts, got %d", len(bc.readings))
	}
	if len(bc.stats) != 1 || bc.stats[0] != 4 {
		t.Errorf("stats broadcasts = %v", bc.stats)
	}
}

func TestSamplerRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	s := New(store, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunWithContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not stop after cancel")
	}

	if len(store.stored()) == 0 {
		t.Error("sampler produced no readings while running")
	}
}

func TestValueAtPlausibleRanges(t *testing.T) {
	now := time.Now()
	cases := []struct {
		sensor   string
		min, max float64
	}{
		{"temperature", 35, 39},
		{"ph", 6.3, 7.3},
		{"dissolved_oxygen", 40, 70},
		{"pressure", 12.5, 16},
	}
	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			v := valueAt(tc.sensor, now.Add(time.Duration(i)*time.Minute))
			if v < tc.min || v > tc.max {
				t.Errorf("%s value %v outside [%v, %v]", tc.sensor, v, tc.min, tc.max)
			}
		}
	}
}
