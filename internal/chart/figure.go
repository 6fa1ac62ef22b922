// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Package chart builds plotly figure specifications for sensor time series.
//
// Figures are plain structs that marshal to the JSON shape consumed by
// Plotly.newPlot / Plotly.react on the client. Construction is pure: the
// same readings and color index always produce the same figure.
package chart

// Figure is a complete plotly figure specification.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single line series. X values are RFC3339 timestamps, which
// plotly parses as a date axis.
type Trace struct {
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	Line Line      `json:"line"`
}

// Line styles a trace.
type Line struct {
	Color string `json:"color"`
}

// Layout holds the figure-level presentation options.
type Layout struct {
	Title  string `json:"title"`
	Margin Margin `json:"margin"`
	XAxis  XAxis  `json:"xaxis"`
	YAxis  Axis   `json:"yaxis"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
	T int `json:"t"`
}

// Axis is a simple titled axis.
type Axis struct {
	Title string `json:"title"`
}

// XAxis is the time axis with the range slider and quick-range buttons.
type XAxis struct {
	Title         string         `json:"title"`
	RangeSlider   RangeSlider    `json:"rangeslider"`
	RangeSelector *RangeSelector `json:"rangeselector,omitempty"`
	Type          string         `json:"type"`
}

// RangeSlider toggles the slider beneath the time axis.
type RangeSlider struct {
	Visible bool `json:"visible"`
}

// RangeSelector holds the quick-range buttons above the time axis.
type RangeSelector struct {
	Buttons []SelectorButton `json:"buttons"`
}

// SelectorButton is one quick-range button. A button with Step "all" resets
// the axis; the rest step backward from the latest point.
type SelectorButton struct {
	Count    int    `json:"count,omitempty"`
	Label    string `json:"label,omitempty"`
	Step     string `json:"step"`
	StepMode string `json:"stepmode,omitempty"`
}

// defaultSelector returns the dashboard's quick-range buttons: 4h, 2h, 1h,
// 30m backward plus a full-history reset.
func defaultSelector() *RangeSelector {
	return &RangeSelector{
		Buttons: []SelectorButton{
			{Count: 4, Label: "4h", Step: "hour", StepMode: "backward"},
			{Count: 2, Label: "2h", Step: "hour", StepMode: "backward"},
			{Count: 1, Label: "1h", Step: "hour", StepMode: "backward"},
			{Count: 30, Label: "30m", Step: "minute", StepMode: "backward"},
			{Step: "all"},
		},
	}
}
