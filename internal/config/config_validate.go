// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// maxMemoryPattern matches DuckDB memory limits like "512MB" or "2GB".
var maxMemoryPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*(KB|MB|GB|TB|KiB|MiB|GiB|TiB)$`)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSampler(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Database.MaxMemory != "" && !maxMemoryPattern.MatchString(c.Database.MaxMemory) {
		return fmt.Errorf("DATABASE_MAX_MEMORY %q is not a valid memory limit (e.g. 512MB, 2GB)", c.Database.MaxMemory)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DATABASE_THREADS must not be negative, got %d", c.Database.Threads)
	}
	if c.Database.SeedSpan < 0 {
		return fmt.Errorf("DATABASE_SEED_SPAN must not be negative, got %v", c.Database.SeedSpan)
	}
	return nil
}

func (c *Config) validateSampler() error {
	if !c.Sampler.Enabled {
		return nil
	}
	if c.Sampler.Interval < time.Second {
		return fmt.Errorf("SAMPLER_INTERVAL must be at least 1s, got %v", c.Sampler.Interval)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.MaxRows < 1 {
		return fmt.Errorf("API_MAX_ROWS must be positive, got %d", c.API.MaxRows)
	}
	if c.API.DefaultWindow < 0 {
		return fmt.Errorf("API_DEFAULT_WINDOW must not be negative, got %v", c.API.DefaultWindow)
	}
	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("API_RATE_LIMIT_REQUESTS must not be negative, got %d", c.API.RateLimitReqs)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q must be json or console", c.Logging.Format)
	}
	return nil
}
