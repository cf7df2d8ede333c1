// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package logging provides centralized zerolog-based structured logging
// for Fieldscope.
//
// Every component logs through this package: JSON output for production,
// console output for development, request/correlation IDs propagated via
// context, and an slog adapter for libraries (Suture via sutureslog) that
// speak log/slog.
//
// # Quick Start
//
//	import "github.com/fieldscope/fieldscope/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("component", "api").Msg("Server starting")
//	logging.Error().Err(err).Msg("Snapshot refresh failed")
//
//	// Context-aware logging in handlers and services
//	logging.Ctx(ctx).Info().Int("signals", n).Msg("Evaluation complete")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	logging.Info().Str("rule", rule).Int("count", n).Msg("signals emitted")  // Correct
//	logging.Info().Msgf("%d signals from %s", n, rule)                       // Avoid
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	apiLogger := logging.WithComponent("api")
//	apiLogger.Info().Msg("Routes registered")
//
// # slog Adapter
//
// For libraries that require an *slog.Logger:
//
//	slogger := logging.NewSlogLogger()
//	hook := (&sutureslog.Handler{Logger: slogger}).MustHook()
//
// # Testing
//
// Capture output with a test logger:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test")
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger is
// guarded by a sync.RWMutex for reconfiguration.
package logging
