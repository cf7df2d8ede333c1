// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Rule evaluation (build duration, signals emitted, current signal set)
// - Snapshot refresh (outcomes, duration, staleness)
// - API endpoint latency and throughput
// - Upstream circuit breaker state

var (
	// Evaluation Metrics
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signal_build_duration_seconds",
			Help:    "Duration of one full rule evaluation pass in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	SignalsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_emitted_total",
			Help: "Total number of signals emitted, by rule and severity",
		},
		[]string{"rule", "severity"},
	)

	SignalsCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signals_current",
			Help: "Number of signals in the most recent evaluation, by severity",
		},
		[]string{"severity"},
	)

	// Snapshot Refresh Metrics
	SnapshotRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_refresh_total",
			Help: "Total number of snapshot refresh attempts",
		},
		[]string{"status"}, // "success", "upstream_error", "decode_error", "rate_limited", "rejected"
	)

	SnapshotRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_refresh_duration_seconds",
			Help:    "Duration of snapshot fetch and decode in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_age_seconds",
			Help: "Age of the currently served snapshot in seconds",
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot refresh",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordEvaluation records one rule evaluation pass: its duration plus the
// per-severity composition of the resulting signal set. Gauges for severities
// absent from the result are reset so stale values never linger.
func RecordEvaluation(duration time.Duration, bySeverity map[string]int) {
	BuildDuration.Observe(duration.Seconds())

	for _, severity := range []string{"critical", "warning", "info"} {
		SignalsCurrent.WithLabelValues(severity).Set(float64(bySeverity[severity]))
	}
}

// RecordSignal counts an emitted signal by rule and severity.
func RecordSignal(rule, severity string) {
	SignalsEmitted.WithLabelValues(rule, severity).Inc()
}

// RecordSnapshotRefresh records a refresh attempt and its outcome.
func RecordSnapshotRefresh(status string, duration time.Duration) {
	SnapshotRefreshTotal.WithLabelValues(status).Inc()
	SnapshotRefreshDuration.Observe(duration.Seconds())
	if status == "success" {
		SnapshotLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetSnapshotAge updates the staleness gauge for the served snapshot.
func SetSnapshotAge(age time.Duration) {
	SnapshotAge.Set(age.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetCircuitBreakerState updates the state gauge for a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest counts a request outcome through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(name, fromState, toState string) {
	CircuitBreakerTransitions.WithLabelValues(name, fromState, toState).Inc()
}

// SetAppInfo publishes version labels once at startup.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// SetUptime updates the uptime gauge.
func SetUptime(uptime time.Duration) {
	AppUptime.Set(uptime.Seconds())
}
