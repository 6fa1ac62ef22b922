// FermWatch - Bioreactor Sensor Dashboard
// Copyright 2026 Chris F. (cfrancis)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cfrancis/fermwatch

// Command server runs the FermWatch dashboard: an HTTP server with embedded
// charts over the readings database, supervised by a suture tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cfrancis/fermwatch/internal/api"
	"github.com/cfrancis/fermwatch/internal/config"
	"github.com/cfrancis/fermwatch/internal/database"
	"github.com/cfrancis/fermwatch/internal/logging"
	"github.com/cfrancis/fermwatch/internal/sampler"
	"github.com/cfrancis/fermwatch/internal/supervisor"
	"github.com/cfrancis/fermwatch/internal/supervisor/services"
	ws "github.com/cfrancis/fermwatch/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Bool("sampler_enabled", cfg.Sampler.Enabled).
		Msg("Starting FermWatch")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(context.Background(), cfg.Database.SeedSpan, cfg.Sampler.Interval); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		logging.Info().Dur("span", cfg.Database.SeedSpan).Msg("Demo data seeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: 10 * time.Second,
	})

	wsHub := ws.NewHub()
	store := database.NewBreakerDB(db)

	handler := api.NewHandler(store, cfg, wsHub)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(
		cfg.API.CORSOrigins,
		cfg.API.RateLimitReqs,
		cfg.API.RateLimitWindow,
	))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddDataService(services.NewWebSocketHubService(wsHub))
	if cfg.Sampler.Enabled {
		// The sampler writes through the raw DB, not the breaker: demo data
		// generation failing should not count against read-path health.
		smp := sampler.New(db, wsHub, cfg.Sampler.Interval)
		tree.AddDataService(services.NewSamplerService(smp))
		logging.Info().Dur("interval", cfg.Sampler.Interval).Msg("Sampler added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
