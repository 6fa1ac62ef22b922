// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"errors"
	"strings"
)

// ErrUnknownSensor is returned when a query names a sensor that is not in
// the catalog.
var ErrUnknownSensor = errors.New("unknown sensor")

// IsConnectionError checks if an error indicates database connection loss.
// Connection errors surface to the HTTP layer unchanged; the handlers map
// them to 5xx responses without retrying.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "database has been invalidated")
}
