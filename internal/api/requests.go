// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package api

// Request structs validated with go-playground/validator before any data
// access happens. Validation failures are client errors (400); only after
// validation do handlers touch the store.

// RefreshRequest parameterizes a chart refresh.
type RefreshRequest struct {
	Sensor string `validate:"required,max=64"`
	Start  string `validate:"omitempty,rfc3339"`
	End    string `validate:"omitempty,rfc3339"`
}

// DownloadRequest parameterizes a CSV export.
type DownloadRequest struct {
	Sensor string `validate:"required,max=64"`
	Start  string `validate:"omitempty,rfc3339"`
	End    string `validate:"omitempty,rfc3339"`
}

// ReadingsRequest parameterizes the raw readings endpoint.
type ReadingsRequest struct {
	Sensor string `validate:"required,max=64"`
	Start  string `validate:"omitempty,rfc3339"`
	End    string `validate:"omitempty,rfc3339"`
	Limit  int    `validate:"omitempty,gte=1,lte=1000000"`
}
