// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package main is the entry point for the Fieldscope server.
//
// Fieldscope watches a field-service operation and turns its current
// state into a ranked list of actionable signals: jobs about to start
// with nobody on the way, crews sitting idle next to at-risk work,
// margins quietly eroding, finished jobs nobody invoiced.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, FIELDSCOPE_* env vars (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Snapshot gateway: rate-limited, circuit-broken client for the
//     operations platform's snapshot endpoint
//  4. Provider: caches the latest snapshot and its evaluated signals
//  5. HTTP API: chi router with per-IP rate limiting and Prometheus metrics
//  6. Supervision tree: suture runs the background refresher and the
//     HTTP server in isolated layers
//
// # Configuration
//
// Every setting can come from the environment. The minimum viable setup
// is the upstream platform location:
//
//	export FIELDSCOPE_UPSTREAM_URL=https://ops.example.com
//	export FIELDSCOPE_UPSTREAM_API_KEY=secret
//	./fieldscope
//
// A YAML file can carry persistent settings (FIELDSCOPE_CONFIG_PATH or
// ./config.yaml); environment variables win over the file.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the refresher stops, the
// HTTP server drains in-flight requests (10s timeout), and any service
// that fails to stop in time is reported before exit.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fieldscope/fieldscope/internal/api"
	"github.com/fieldscope/fieldscope/internal/config"
	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/metrics"
	"github.com/fieldscope/fieldscope/internal/snapshot"
	"github.com/fieldscope/fieldscope/internal/supervisor"
	"github.com/fieldscope/fieldscope/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors surface through the default logger since the
		// configured one doesn't exist yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("upstream_url", cfg.Upstream.URL).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Str("listen", cfg.Server.Addr()).
		Msg("Starting Fieldscope")

	metrics.SetAppInfo(version, runtime.Version())

	// Snapshot gateway and the provider that caches evaluations.
	client := snapshot.NewClient(&cfg.Upstream)
	provider := snapshot.NewProvider(client, cfg.Thresholds)

	// HTTP surface.
	handler := api.NewHandler(provider, cfg.API.MaxSignals, version)
	router := api.NewRouter(handler, &cfg.API)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog wants slog; bridge it to the zerolog output.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervision tree")
	}

	tree.AddDataService(services.NewRefresherService(
		provider,
		cfg.Refresh.Interval,
		cfg.Refresh.Timeout,
		cfg.Refresh.OnStartup,
	))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	// Track uptime for the /metrics gauge.
	startedAt := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.SetUptime(time.Since(startedAt))
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervised services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision tree error")
		}
	}

	// Drain the channel so shutdown errors are not lost.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Fieldscope stopped gracefully")
}
