// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for rule evaluation, snapshot freshness, API latency,
and upstream circuit breaker health.

# Overview

The package provides metrics for:
  - Rule evaluation performance and signal composition
  - Snapshot refresh outcomes and staleness
  - API request latency and throughput
  - Rate limiter rejections
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8642/metrics

# Available Metrics

Evaluation Metrics:
  - signal_build_duration_seconds: One full rule evaluation pass (histogram)
    Buckets: .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5
  - signals_emitted_total: Signals emitted over process lifetime (counter)
    Labels: rule, severity
  - signals_current: Signal count in the latest evaluation (gauge)
    Labels: severity

Snapshot Metrics:
  - snapshot_refresh_total: Refresh attempts (counter)
    Labels: status (success, upstream_error, decode_error, rejected)
  - snapshot_refresh_duration_seconds: Fetch and decode time (histogram)
  - snapshot_age_seconds: Age of the currently served snapshot (gauge)
  - snapshot_last_success_timestamp: Unix timestamp of last successful refresh (gauge)

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
    Buckets: .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Requests rejected by the limiter (counter)
    Labels: endpoint

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Request outcomes (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

System Metrics:
  - app_info: Version and Go runtime labels, value fixed at 1 (gauge)
    Labels: version, go_version
  - app_uptime_seconds: Process uptime (gauge)

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/fieldscope/fieldscope/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    metrics.SetAppInfo(version, runtime.Version())

	    // Register metrics endpoint
	    http.Handle("/metrics", promhttp.Handler())
	}

Recording an evaluation pass:

	start := time.Now()
	candidates := signals.Build(input)

	bySeverity := make(map[string]int)
	for _, c := range candidates {
	    bySeverity[string(c.Severity)]++
	    metrics.RecordSignal(c.Rule, string(c.Severity))
	}
	metrics.RecordEvaluation(time.Since(start), bySeverity)

Recording a snapshot refresh:

	start := time.Now()
	snap, err := client.FetchSnapshot(ctx)
	if err != nil {
	    metrics.RecordSnapshotRefresh("upstream_error", time.Since(start))
	    return err
	}
	metrics.RecordSnapshotRefresh("success", time.Since(start))

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'fieldscope'
	    static_configs:
	      - targets: ['localhost:8642']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# API request rate
	rate(api_requests_total[5m])

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Critical signals right now
	signals_current{severity="critical"}

	# Snapshot staleness alert threshold
	snapshot_age_seconds > 300

	# Refresh failure ratio
	sum(rate(snapshot_refresh_total{status!="success"}[15m]))
	/
	sum(rate(snapshot_refresh_total[15m]))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, never raw URLs
  - Rule labels are drawn from the fixed rule registry
  - Severity labels are limited to critical, warning, info
  - Tenant or entity identifiers never appear as labels

# Alerting Rules

Example Prometheus alerting rules:

	groups:
	  - name: fieldscope
	    rules:
	      - alert: SnapshotStale
	        expr: snapshot_age_seconds > 600
	        for: 5m
	        annotations:
	          summary: "Snapshot is {{ $value }}s old"

	      - alert: UpstreamCircuitOpen
	        expr: circuit_breaker_state{name="upstream"} == 2
	        for: 2m
	        annotations:
	          summary: "Upstream circuit breaker open"

	      - alert: HighAPIErrorRate
	        expr: |
	          sum(rate(api_requests_total{status_code=~"5.."}[5m]))
	          /
	          sum(rate(api_requests_total[5m]))
	          > 0.05
	        for: 5m
	        annotations:
	          summary: "High API error rate: {{ $value }}%"

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/snapshot: Refresh and staleness metrics recording
  - internal/signals: Rule evaluation the histograms measure
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
