// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/cfrancis/fermwatch/internal/models"
)

func testSensor() models.Sensor {
	return models.Sensor{ID: "temperature", Title: "Temperature", Unit: "Celsius", Position: 0}
}

func testReadings(n int) []models.Reading {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			SensorID:   "temperature",
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
			Value:      30 + float64(i)*0.1,
		}
	}
	return readings
}

func TestBuild(t *testing.T) {
	fig := Build(testSensor(), testReadings(3), 0)

	if len(fig.Data) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(fig.Data))
	}
	trace := fig.Data[0]
	if len(trace.X) != 3 || len(trace.Y) != 3 {
		t.Fatalf("expected 3 points, got x=%d y=%d", len(trace.X), len(trace.Y))
	}
	if trace.X[0] != "2026-08-01T00:00:00Z" {
		t.Errorf("x[0] = %q, want RFC3339 timestamp", trace.X[0])
	}
	if trace.Mode != "lines" {
		t.Errorf("mode = %q, want lines", trace.Mode)
	}
	if trace.Line.Color != ColorAt(0) {
		t.Errorf("color = %q, want %q", trace.Line.Color, ColorAt(0))
	}
	if fig.Layout.Title != "Temperature (Celsius)" {
		t.Errorf("title = %q", fig.Layout.Title)
	}
	if !fig.Layout.XAxis.RangeSlider.Visible {
		t.Error("rangeslider should be visible")
	}
}

func TestBuildEmptyReadings(t *testing.T) {
	fig := Build(testSensor(), nil, 2)

	if len(fig.Data) != 1 {
		t.Fatalf("expected 1 trace for empty readings, got %d", len(fig.Data))
	}
	if len(fig.Data[0].X) != 0 || len(fig.Data[0].Y) != 0 {
		t.Error("empty readings should produce an empty trace")
	}
	if fig.Data[0].Line.Color != ColorAt(2) {
		t.Errorf("color = %q, want %q", fig.Data[0].Line.Color, ColorAt(2))
	}
}

func TestBuildDeterministic(t *testing.T) {
	readings := testReadings(10)

	a, err := json.Marshal(Build(testSensor(), readings, 3))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(Build(testSensor(), readings, 3))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same inputs should produce byte-identical figure JSON")
	}
}

func TestRangeSelectorButtons(t *testing.T) {
	fig := Build(testSensor(), nil, 0)

	sel := fig.Layout.XAxis.RangeSelector
	if sel == nil {
		t.Fatal("rangeselector missing")
	}
	if len(sel.Buttons) != 5 {
		t.Fatalf("expected 5 buttons, got %d", len(sel.Buttons))
	}
	labels := []string{"4h", "2h", "1h", "30m", ""}
	for i, b := range sel.Buttons {
		if b.Label != labels[i] {
			t.Errorf("button %d label = %q, want %q", i, b.Label, labels[i])
		}
	}
	if sel.Buttons[4].Step != "all" {
		t.Errorf("last button step = %q, want all", sel.Buttons[4].Step)
	}
}

func TestColorAtWraps(t *testing.T) {
	n := PaletteSize()
	if ColorAt(0) != ColorAt(n) {
		t.Error("index n should wrap to index 0")
	}
	if ColorAt(3) != ColorAt(3+2*n) {
		t.Error("index should wrap modulo palette size")
	}
	if ColorAt(-1) != ColorAt(0) {
		t.Error("negative index should clamp to 0")
	}
}

func TestColorCycleMonotonic(t *testing.T) {
	cycle := NewColorCycle()
	cycle.Seed("ph", 1)

	prev := cycle.Current("ph")
	if prev != 1 {
		t.Fatalf("seeded index = %d, want 1", prev)
	}
	for i := 0; i < 2*PaletteSize(); i++ {
		next := cycle.Next("ph")
		if next != prev+1 {
			t.Fatalf("Next returned %d after %d, want monotonic increment", next, prev)
		}
		prev = next
	}
}

func TestColorCycleSuccessiveColorsDiffer(t *testing.T) {
	cycle := NewColorCycle()
	prevColor := ColorAt(cycle.Current("do"))
	for i := 0; i < PaletteSize()-1; i++ {
		color := ColorAt(cycle.Next("do"))
		if color == prevColor {
			t.Fatalf("refresh %d produced same color %q as previous", i, color)
		}
		prevColor = color
	}
}

func TestColorCycleSeedIgnoredAfterAdvance(t *testing.T) {
	cycle := NewColorCycle()
	cycle.Seed("pressure", 3)
	cycle.Next("pressure")
	cycle.Seed("pressure", 3)

	if got := cycle.Current("pressure"); got != 4 {
		t.Errorf("re-seed after advance changed index: got %d, want 4", got)
	}
}

func TestColorCycleIndependentSensors(t *testing.T) {
	cycle := NewColorCycle()
	cycle.Next("a")
	cycle.Next("a")

	if got := cycle.Current("b"); got != 0 {
		t.Errorf("sensor b index = %d, want 0", got)
	}
}

func TestBuildLayoutMargin(t *testing.T) {
	fig := Build(testSensor(), testReadings(1), 0)

	// The dashboard charts bleed to the panel edges horizontally and only
	// reserve room for the title and the rangeslider.
	want := Margin{L: 0, R: 0, B: 35, T: 60}
	if fig.Layout.Margin != want {
		t.Errorf("margin = %+v, want %+v", fig.Layout.Margin, want)
	}
}
