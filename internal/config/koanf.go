// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/fieldscope/fieldscope/internal/signals"
)

// DefaultConfigPaths lists where a config file is searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fieldscope/config.yaml",
	"/etc/fieldscope/config.yml",
}

// ConfigPathEnvVar overrides the config file search path entirely.
const ConfigPathEnvVar = "FIELDSCOPE_CONFIG_PATH"

// EnvPrefix is stripped from environment variables before mapping them
// onto config paths.
const EnvPrefix = "FIELDSCOPE_"

// defaultConfig returns a Config with every optional setting filled in.
// Only upstream.url has no sensible default; validation enforces it.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8085,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Upstream: UpstreamConfig{
			URL:              "",
			APIKey:           "",
			Timeout:          15 * time.Second,
			FetchesPerMinute: 12,
		},
		Refresh: RefreshConfig{
			Interval:  time.Minute,
			OnStartup: true,
			Timeout:   30 * time.Second,
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxSignals:        500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Thresholds: signals.DefaultThresholds(),
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML (see DefaultConfigPaths / FIELDSCOPE_CONFIG_PATH)
//  3. Environment: FIELDSCOPE_* variables, highest priority
//
// The merged tree is validated before being returned; a config that fails
// validation is never handed to the caller.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile locates the config file: FIELDSCOPE_CONFIG_PATH first,
// then the default search paths. Returns "" when no file exists, which is
// not an error.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are config paths that may arrive from the environment
// as comma-separated strings and must be split into slices.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values into slices
// for the known slice fields. YAML-sourced values are already slices and
// are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names onto koanf config
// paths. The provider filters on the FIELDSCOPE_ prefix but hands the full
// name to the callback, so the prefix is stripped here before lookup.
//
// The mapping is an explicit table rather than a mechanical
// underscore-to-dot transform because the threshold keys themselves
// contain underscores: THRESHOLD_LATE_RISK_MINUTES must become
// thresholds.late_risk_minutes, not thresholds.late.risk.minutes.
// Unmapped keys return "" and are skipped, so unrelated environment
// variables cannot pollute the config tree.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Upstream operations platform mappings
		"upstream_url":                "upstream.url",
		"upstream_api_key":            "upstream.api_key",
		"upstream_timeout":            "upstream.timeout",
		"upstream_fetches_per_minute": "upstream.fetches_per_minute",

		// Refresh mappings
		"refresh_interval":   "refresh.interval",
		"refresh_on_startup": "refresh.on_startup",
		"refresh_timeout":    "refresh.timeout",

		// API mappings
		"cors_origins":        "api.cors_origins",
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"disable_rate_limit":  "api.rate_limit_disabled",
		"api_max_signals":     "api.max_signals",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Rule threshold mappings
		"threshold_late_risk_minutes":             "thresholds.late_risk_minutes",
		"threshold_idle_minutes":                  "thresholds.idle_threshold_minutes",
		"threshold_stale_location_minutes":        "thresholds.stale_location_minutes",
		"threshold_risk_radius_km":                "thresholds.risk_radius_km",
		"threshold_no_progress_minutes":           "thresholds.no_progress_minutes",
		"threshold_no_materials_minutes":          "thresholds.no_materials_minutes",
		"threshold_en_route_delay_minutes":        "thresholds.en_route_delay_minutes",
		"threshold_hours_overage_multiplier":      "thresholds.hours_overage_multiplier",
		"threshold_time_risk_critical_multiplier": "thresholds.time_risk_critical_multiplier",
		"threshold_default_job_duration_minutes":  "thresholds.default_job_duration_minutes",
		"threshold_margin_warning_percent":        "thresholds.margin_warning_percent",
		"threshold_margin_critical_percent":       "thresholds.margin_critical_percent",
		"threshold_unassigned_warning_days":       "thresholds.unassigned_warning_days",
		"threshold_crew_swap_window_minutes":      "thresholds.crew_swap_window_minutes",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped entirely.
	return ""
}
