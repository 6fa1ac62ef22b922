// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"context"
	"fmt"

	"github.com/cfrancis/fermwatch/internal/models"
)

// createTables creates the sensor catalog and readings tables. Statements
// are idempotent so startup can run them unconditionally.
func (db *DB) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sensors (
			id        VARCHAR PRIMARY KEY,
			title     VARCHAR NOT NULL,
			unit      VARCHAR NOT NULL,
			position  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS readings (
			sensor_id   VARCHAR NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			value       DOUBLE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_sensor_time
			ON readings (sensor_id, recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// seedSensors inserts the default sensor catalog, skipping rows that
// already exist.
func (db *DB) seedSensors(ctx context.Context) error {
	const insert = `INSERT INTO sensors (id, title, unit, position)
		SELECT ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM sensors WHERE id = ?)`

	for _, s := range models.DefaultSensors() {
		if _, err := db.conn.ExecContext(ctx, insert, s.ID, s.Title, s.Unit, s.Position, s.ID); err != nil {
			return fmt.Errorf("failed to seed sensor %s: %w", s.ID, err)
		}
	}
	return nil
}
