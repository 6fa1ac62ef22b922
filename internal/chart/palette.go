// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package chart

import (
	"sync"
)

// palette is the plotly qualitative color sequence. Order matters: chart
// colors are assigned by index modulo the palette size.
var palette = []string{
	"#1f77b4", // muted blue
	"#ff7f0e", // safety orange
	"#2ca02c", // cooked asparagus green
	"#d62728", // brick red
	"#9467bd", // muted purple
	"#8c564b", // chestnut brown
	"#e377c2", // raspberry pink
	"#7f7f7f", // middle gray
	"#bcbd22", // curry yellow-green
	"#17becf", // blue-teal
}

// PaletteSize returns the number of colors in the cycle.
func PaletteSize() int {
	return len(palette)
}

// ColorAt returns the palette color for an index, wrapping modulo the
// palette size. Negative indexes are treated as zero.
func ColorAt(index int) string {
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}

// ColorCycle tracks a monotonically increasing color index per sensor.
// Each Next call advances the sensor's index by one; the rendered color
// wraps modulo the palette size while the counter itself only grows.
type ColorCycle struct {
	mu      sync.Mutex
	indexes map[string]int
}

// NewColorCycle creates an empty cycle. Seed assigns starting positions so
// the initial page render matches the dashboard's sensor ordering.
func NewColorCycle() *ColorCycle {
	return &ColorCycle{indexes: make(map[string]int)}
}

// Seed sets the current index for a sensor without advancing it. Seeding an
// already-advanced sensor is ignored so refreshes survive re-seeding.
func (c *ColorCycle) Seed(sensorID string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indexes[sensorID]; !ok {
		c.indexes[sensorID] = index
	}
}

// Current returns the sensor's current index without advancing it.
func (c *ColorCycle) Current(sensorID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexes[sensorID]
}

// Next advances the sensor's index and returns the new value. The returned
// index is monotonic per sensor; use ColorAt to map it to a color.
func (c *ColorCycle) Next(sensorID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[sensorID]++
	return c.indexes[sensorID]
}
