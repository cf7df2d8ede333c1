// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setBaseEnv supplies the one setting without a default so Load can
// succeed, and chdirs away from any stray config.yaml.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("FIELDSCOPE_UPSTREAM_URL", "http://ops.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8085 {
		t.Errorf("Server.Port = %d, want 8085", cfg.Server.Port)
	}
	if cfg.Upstream.URL != "http://ops.example.com" {
		t.Errorf("Upstream.URL = %q", cfg.Upstream.URL)
	}
	if cfg.Thresholds.IdleThresholdMinutes != 45 {
		t.Errorf("Thresholds.IdleThresholdMinutes = %d, want 45", cfg.Thresholds.IdleThresholdMinutes)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FIELDSCOPE_HTTP_PORT", "9090")
	t.Setenv("FIELDSCOPE_LOG_LEVEL", "debug")
	t.Setenv("FIELDSCOPE_REFRESH_INTERVAL", "30s")
	t.Setenv("FIELDSCOPE_THRESHOLD_LATE_RISK_MINUTES", "45")
	t.Setenv("FIELDSCOPE_THRESHOLD_RISK_RADIUS_KM", "5.5")
	t.Setenv("FIELDSCOPE_THRESHOLD_TIME_RISK_CRITICAL_MULTIPLIER", "2.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Errorf("Refresh.Interval = %v, want 30s", cfg.Refresh.Interval)
	}
	if cfg.Thresholds.LateRiskMinutes != 45 {
		t.Errorf("Thresholds.LateRiskMinutes = %d, want 45", cfg.Thresholds.LateRiskMinutes)
	}
	if cfg.Thresholds.RiskRadiusKm != 5.5 {
		t.Errorf("Thresholds.RiskRadiusKm = %v, want 5.5", cfg.Thresholds.RiskRadiusKm)
	}
	if cfg.Thresholds.TimeRiskCriticalMultiplier != 2.0 {
		t.Errorf("Thresholds.TimeRiskCriticalMultiplier = %v, want 2.0", cfg.Thresholds.TimeRiskCriticalMultiplier)
	}
}

func TestLoadConfigFile(t *testing.T) {
	setBaseEnv(t)

	yaml := `
server:
  port: 7070
logging:
  level: warn
thresholds:
  idle_threshold_minutes: 90
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn from file", cfg.Logging.Level)
	}
	if cfg.Thresholds.IdleThresholdMinutes != 90 {
		t.Errorf("Thresholds.IdleThresholdMinutes = %d, want 90 from file", cfg.Thresholds.IdleThresholdMinutes)
	}
	// Untouched keys keep their defaults.
	if cfg.Thresholds.NoProgressMinutes != 120 {
		t.Errorf("Thresholds.NoProgressMinutes = %d, want default 120", cfg.Thresholds.NoProgressMinutes)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FIELDSCOPE_HTTP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env override 9090", cfg.Server.Port)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FIELDSCOPE_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i := range want {
		if cfg.API.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FIELDSCOPE_THRESHOLD_LATE_RISK_MINUTES", "-5")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want validation error for negative threshold")
	}
}

func TestEnvTransformFuncSkipsUnknownKeys(t *testing.T) {
	if got := envTransformFunc("FIELDSCOPE_SOME_RANDOM_KEY"); got != "" {
		t.Errorf("envTransformFunc(unknown) = %q, want empty", got)
	}
	if got := envTransformFunc("FIELDSCOPE_HTTP_PORT"); got != "server.port" {
		t.Errorf("envTransformFunc(FIELDSCOPE_HTTP_PORT) = %q, want server.port", got)
	}
	if got := envTransformFunc("FIELDSCOPE_THRESHOLD_CREW_SWAP_WINDOW_MINUTES"); got != "thresholds.crew_swap_window_minutes" {
		t.Errorf("envTransformFunc(threshold key) = %q", got)
	}
}
