// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

/*
Package config provides centralized configuration management for Fieldscope.

Configuration is loaded with Koanf v2 from three layered sources, highest
priority last:

 1. Built-in defaults (struct provider)
 2. Optional YAML config file (config.yaml, or FIELDSCOPE_CONFIG_PATH)
 3. Environment variables with the FIELDSCOPE_ prefix

# Configuration Structure

The tree is organized into logical groups:

  - ServerConfig: HTTP listener settings (host, port, timeout)
  - UpstreamConfig: operations-platform snapshot endpoint (URL, API key,
    request timeout, fetch rate limit)
  - RefreshConfig: background snapshot refresh cadence
  - APIConfig: CORS origins, rate limiting, response limits
  - LoggingConfig: zerolog level / format / caller
  - signals.Thresholds: the numeric knobs for every detection rule

# Environment Variables

Environment keys map to config paths through an explicit table rather than a
mechanical underscore-to-dot transform, because threshold keys themselves
contain underscores (FIELDSCOPE_THRESHOLD_LATE_RISK_MINUTES must become
thresholds.late_risk_minutes, not thresholds.late.risk.minutes). Unmapped
FIELDSCOPE_* variables are ignored so unrelated environment noise cannot
leak into the config tree.

Examples:

	FIELDSCOPE_HTTP_PORT=8085
	FIELDSCOPE_UPSTREAM_URL=https://ops.example.com
	FIELDSCOPE_UPSTREAM_API_KEY=secret
	FIELDSCOPE_REFRESH_INTERVAL=30s
	FIELDSCOPE_LOG_LEVEL=debug
	FIELDSCOPE_THRESHOLD_RISK_RADIUS_KM=5.5

# Validation

Load validates the assembled tree before returning it: struct tags on the
threshold set (every knob required and positive, critical multipliers on
the correct side of their warning counterparts) run through the shared
validator, and the server/upstream/refresh groups are checked by hand the
same way the rest of the tree is. A config that fails validation is never
returned partially usable.

Thread safety: Config is immutable after Load and safe for concurrent
reads.
*/
package config
