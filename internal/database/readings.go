// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cfrancis/fermwatch/internal/metrics"
	"github.com/cfrancis/fermwatch/internal/models"
)

// scanFunc scans a single row into a result type.
type scanFunc[T any] func(*sql.Rows) (T, error)

// observeQuery records duration and outcome for one query. Catalog misses
// are client errors, not database failures, so they don't count against
// the error metric.
func observeQuery(operation string, start time.Time, err *error) {
	e := *err
	if errors.Is(e, ErrUnknownSensor) {
		e = nil
	}
	metrics.RecordDBQuery(operation, time.Since(start), e)
}

// queryAndScan executes a query and scans all rows using the provided scan
// function.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// ListSensors returns the sensor catalog in dashboard order.
func (db *DB) ListSensors(ctx context.Context) (sensors []models.Sensor, err error) {
	defer observeQuery("list_sensors", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT id, title, unit, position FROM sensors ORDER BY position`
	sensors, err = queryAndScan(ctx, db.conn, query, nil, func(rows *sql.Rows) (models.Sensor, error) {
		var s models.Sensor
		err := rows.Scan(&s.ID, &s.Title, &s.Unit, &s.Position)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	return sensors, nil
}

// GetSensor looks up one sensor by ID. Returns ErrUnknownSensor when the
// ID is not in the catalog.
func (db *DB) GetSensor(ctx context.Context, sensorID string) (_ models.Sensor, err error) {
	defer observeQuery("get_sensor", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT id, title, unit, position FROM sensors WHERE id = ?`
	var s models.Sensor
	err = db.conn.QueryRowContext(ctx, query, sensorID).Scan(&s.ID, &s.Title, &s.Unit, &s.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sensor{}, fmt.Errorf("%w: %s", ErrUnknownSensor, sensorID)
	}
	if err != nil {
		return models.Sensor{}, fmt.Errorf("failed to get sensor: %w", err)
	}
	return s, nil
}

// GetReadings returns readings for one sensor inside the window, ordered by
// recorded_at ascending. Bounds are inclusive. An empty window (start equal
// to end, or inverted) returns an empty slice and no error without touching
// the readings table.
func (db *DB) GetReadings(ctx context.Context, sensorID string, window models.TimeWindow) (readings []models.Reading, err error) {
	if window.IsEmpty() {
		return []models.Reading{}, nil
	}

	defer observeQuery("get_readings", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		filters = []string{"sensor_id = ?"}
		args    = []interface{}{sensorID}
	)
	if !window.Start.IsZero() {
		filters = append(filters, "recorded_at >= ?")
		args = append(args, window.Start.UTC())
	}
	if !window.End.IsZero() {
		filters = append(filters, "recorded_at <= ?")
		args = append(args, window.End.UTC())
	}

	query := fmt.Sprintf(
		`SELECT sensor_id, recorded_at, value FROM readings WHERE %s ORDER BY recorded_at`,
		strings.Join(filters, " AND "))

	readings, err = queryAndScan(ctx, db.conn, query, args, scanReading)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	if readings == nil {
		readings = []models.Reading{}
	}
	return readings, nil
}

// LatestReading returns the most recent reading for a sensor. Returns
// sql.ErrNoRows wrapped when the sensor has no readings yet.
func (db *DB) LatestReading(ctx context.Context, sensorID string) (_ models.Reading, err error) {
	defer observeQuery("latest_reading", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const query = `SELECT sensor_id, recorded_at, value FROM readings
		WHERE sensor_id = ? ORDER BY recorded_at DESC LIMIT 1`

	var r models.Reading
	err = db.conn.QueryRowContext(ctx, query, sensorID).Scan(&r.SensorID, &r.RecordedAt, &r.Value)
	if err != nil {
		return models.Reading{}, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return r, nil
}

// CountReadings returns the number of stored readings for a sensor, or for
// all sensors when sensorID is empty.
func (db *DB) CountReadings(ctx context.Context, sensorID string) (count int64, err error) {
	defer observeQuery("count_readings", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	if sensorID == "" {
		err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&count)
	} else {
		err = db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM readings WHERE sensor_id = ?`, sensorID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// InsertReadings stores a batch of readings. The batch is written through a
// cached prepared statement; DuckDB appends are cheap so no explicit
// transaction is used for small batches.
func (db *DB) InsertReadings(ctx context.Context, readings []models.Reading) (err error) {
	if len(readings) == 0 {
		return nil
	}

	defer observeQuery("insert_readings", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stmt, err := db.getStmt(ctx, `INSERT INTO readings (sensor_id, recorded_at, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, r.SensorID, r.RecordedAt.UTC(), r.Value); err != nil {
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}
	return nil
}

// scanReading scans one readings row.
func scanReading(rows *sql.Rows) (models.Reading, error) {
	var r models.Reading
	err := rows.Scan(&r.SensorID, &r.RecordedAt, &r.Value)
	return r, err
}
