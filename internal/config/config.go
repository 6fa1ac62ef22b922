// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Package config loads and validates the application configuration.
//
// Configuration is layered, lowest priority first: struct defaults, an
// optional YAML file, then environment variables. See koanf.go for the
// loader and the supported environment variable names.
package config

import (
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Sampler  SamplerConfig  `koanf:"sampler"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings. Path is the connection string: a
// file path, or ":memory:" for an ephemeral database.
type DatabaseConfig struct {
	Path                   string        `koanf:"path"`
	MaxMemory              string        `koanf:"max_memory"`
	Threads                int           `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool          `koanf:"preserve_insertion_order"`
	SeedDemoData           bool          `koanf:"seed_demo_data"`
	SeedSpan               time.Duration `koanf:"seed_span"`
}

// SamplerConfig controls the synthetic reading generator used for demo
// deployments.
type SamplerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// APIConfig holds request handling limits.
type APIConfig struct {
	DefaultWindow   time.Duration `koanf:"default_window"` // window when no bounds given
	MaxRows         int           `koanf:"max_rows"`       // cap on rows per readings response
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8888,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                   "/data/fermwatch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			SeedDemoData:           false,
			SeedSpan:               24 * time.Hour,
		},
		Sampler: SamplerConfig{
			Enabled:  false,
			Interval: 10 * time.Second,
		},
		API: APIConfig{
			DefaultWindow:   0, // unbounded, full history like the original dashboard
			MaxRows:         100000,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
