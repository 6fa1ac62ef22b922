// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package chart

import (
	"fmt"
	"time"

	"github.com/cfrancis/fermwatch/internal/models"
)

// Build constructs the figure for one sensor. Readings must already be
// ordered by RecordedAt ascending; the builder does not sort. An empty
// slice produces a valid figure with a single empty trace so the client
// still renders axes and controls.
func Build(sensor models.Sensor, readings []models.Reading, colorIndex int) Figure {
	xs := make([]string, len(readings))
	ys := make([]float64, len(readings))
	for i, r := range readings {
		xs[i] = r.RecordedAt.UTC().Format(time.RFC3339)
		ys[i] = r.Value
	}

	return Figure{
		Data: []Trace{
			{
				X:    xs,
				Y:    ys,
				Mode: "lines",
				Name: sensor.Title,
				Line: Line{Color: ColorAt(colorIndex)},
			},
		},
		Layout: Layout{
			Title:  fmt.Sprintf("%s (%s)", sensor.Title, sensor.Unit),
			Margin: Margin{L: 0, R: 0, B: 35, T: 60},
			XAxis: XAxis{
				Title:         "Time",
				Type:          "date",
				RangeSlider:   RangeSlider{Visible: true},
				RangeSelector: defaultSelector(),
			},
			YAxis: Axis{Title: sensor.Unit},
		},
	}
}
