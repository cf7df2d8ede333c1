// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fieldscope/fieldscope/internal/signals"
	"github.com/fieldscope/fieldscope/internal/validation"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and FIELDSCOPE_* environment variables.
//
// Loading order (Koanf v2, highest priority last):
//  1. Defaults: built-in values for every optional setting
//  2. Config file: optional YAML file for persistent settings
//  3. Environment variables: override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig       `koanf:"server"`
	Upstream   UpstreamConfig     `koanf:"upstream"`
	Refresh    RefreshConfig      `koanf:"refresh"`
	API        APIConfig          `koanf:"api"`
	Logging    LoggingConfig      `koanf:"logging"`
	Thresholds signals.Thresholds `koanf:"thresholds"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Host is the bind address. Default 0.0.0.0.
	Host string `koanf:"host"`

	// Port is the listen port. Default 8085.
	Port int `koanf:"port"`

	// Timeout bounds request reads and writes on the listener.
	Timeout time.Duration `koanf:"timeout"`

	// Environment selects development vs production behavior checks.
	Environment string `koanf:"environment"`
}

// Addr returns the host:port the server should listen on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig holds the operations-platform snapshot endpoint settings.
// The platform serves the pre-joined operational snapshot that every rule
// evaluation runs against.
type UpstreamConfig struct {
	// URL is the base URL of the operations platform, without a trailing
	// path. The snapshot is fetched from <URL>/api/v1/operations/snapshot.
	URL string `koanf:"url"`

	// APIKey authenticates snapshot fetches (sent as X-API-Key).
	APIKey string `koanf:"api_key"`

	// Timeout bounds one snapshot fetch, connect through body read.
	Timeout time.Duration `koanf:"timeout"`

	// FetchesPerMinute caps outbound snapshot fetches. Manual refreshes
	// and the background refresher share this budget. Zero disables the
	// cap.
	FetchesPerMinute int `koanf:"fetches_per_minute"`
}

// RefreshConfig holds the background snapshot refresh cadence.
type RefreshConfig struct {
	// Interval is how often the refresher pulls a fresh snapshot.
	Interval time.Duration `koanf:"interval"`

	// OnStartup triggers an immediate refresh before the first tick, so
	// the API is ready as soon as the upstream responds once.
	OnStartup bool `koanf:"on_startup"`

	// Timeout bounds a single refresh attempt, independent of the HTTP
	// client timeout, so a wedged refresh can't block the next tick.
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// CORSOrigins lists allowed origins. Default ["*"].
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit measurement window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off API rate limiting entirely. Intended
	// for tests and development only.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// MaxSignals caps the `limit` query parameter on the signal listing
	// endpoint.
	MaxSignals int `koanf:"max_signals"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// Caller adds file:line to every event.
	Caller bool `koanf:"caller"`
}

// validLogLevels are the accepted logging.level values.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

// Validate checks the assembled configuration tree. It is called by Load
// after all layers are merged, so it sees exactly what the application
// will run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateThresholds()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if c.Upstream.URL == "" {
		return fmt.Errorf("upstream.url is required (FIELDSCOPE_UPSTREAM_URL)")
	}

	u, err := url.Parse(c.Upstream.URL)
	if err != nil {
		return fmt.Errorf("upstream.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream.url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("upstream.url has no host: %q", c.Upstream.URL)
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %v", c.Upstream.Timeout)
	}
	if c.Upstream.FetchesPerMinute < 0 {
		return fmt.Errorf("upstream.fetches_per_minute must not be negative, got %d", c.Upstream.FetchesPerMinute)
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh.interval must be at least 1s, got %v", c.Refresh.Interval)
	}
	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("refresh.timeout must be positive, got %v", c.Refresh.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs <= 0 {
			return fmt.Errorf("api.rate_limit_reqs must be positive, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("api.rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
		}
	}
	if c.API.MaxSignals <= 0 {
		return fmt.Errorf("api.max_signals must be positive, got %d", c.API.MaxSignals)
	}
	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if !validLogLevels[level] {
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error/fatal, got %q", c.Logging.Level)
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateThresholds runs the struct tags on signals.Thresholds through the
// shared validator: every knob required and positive, the critical
// multiplier at or above the overage multiplier, the critical margin at or
// below the warning margin.
func (c *Config) validateThresholds() error {
	if verr := validation.ValidateStruct(c.Thresholds); verr != nil {
		return fmt.Errorf("thresholds: %w", verr)
	}
	return nil
}
