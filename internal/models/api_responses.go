// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package models

import (
	"time"

	"github.com/fieldscope/fieldscope/internal/signals"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and snapshot provenance.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"signals": [...], "count": 7},
//	  "metadata": {
//	    "timestamp": "2026-08-26T12:00:00Z",
//	    "snapshot_at": "2026-08-26T11:58:41Z",
//	    "eval_time_ms": 2
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NO_SNAPSHOT",
//	    "message": "No operations snapshot has been loaded yet"
//	  },
//	  "metadata": {"timestamp": "2026-08-26T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and snapshot provenance.
// Every response carries the server time; signal responses additionally carry the
// capture time of the snapshot they were evaluated against, which is what clients
// should display as "data as of".
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339 format)
//   - SnapshotAt: Capture time of the snapshot the evaluation ran against
//   - EvalTimeMS: Rule evaluation time in milliseconds (omitted when zero)
//   - Cached: Whether the response was served from the evaluation cache
type Metadata struct {
	Timestamp  time.Time  `json:"timestamp"`
	SnapshotAt *time.Time `json:"snapshot_at,omitempty"`
	EvalTimeMS int64      `json:"eval_time_ms,omitempty"`
	Cached     bool       `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NO_SNAPSHOT: No operations snapshot has been loaded yet
//   - UPSTREAM_ERROR: The operations platform refused or failed the refresh
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SignalsResponse wraps the ranked signal list returned by the listing endpoint.
// Signals arrive pre-sorted: severity descending, then detection time descending.
//
// Example:
//
//	{
//	  "signals": [
//	    {"id": "late_risk:job:j-18", "severity": "critical", ...},
//	    {"id": "crew_idle:crew:c-4", "severity": "info", ...}
//	  ],
//	  "count": 2,
//	  "truncated": false
//	}
type SignalsResponse struct {
	Signals []signals.Candidate `json:"signals"`
	Count   int                 `json:"count"`

	// Truncated reports that a limit cut the list short.
	Truncated bool `json:"truncated,omitempty"`
}

// SignalSummary aggregates the current signal set for dashboard tiles.
//
// Example:
//
//	{
//	  "total": 9,
//	  "by_severity": {"critical": 2, "warning": 4, "info": 3},
//	  "by_rule": {"late_risk": 1, "crew_idle": 3, ...},
//	  "snapshot_age_seconds": 41.7
//	}
type SignalSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByRule     map[string]int `json:"by_rule"`

	// SnapshotAgeSeconds is how stale the evaluated snapshot is.
	SnapshotAgeSeconds float64 `json:"snapshot_age_seconds"`
}

// RefreshResult reports the outcome of a snapshot refresh, whether triggered
// by the background refresher or the manual refresh endpoint.
type RefreshResult struct {
	Status     string    `json:"status"`
	SnapshotAt time.Time `json:"snapshot_at"`
	DurationMS int64     `json:"duration_ms"`
}

// HealthStatus is the liveness payload. It reports only that the process is
// up; readiness (snapshot loaded) is a separate check.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyStatus is the readiness payload. The service is ready once at least
// one snapshot has been loaded from the operations platform.
type ReadyStatus struct {
	Ready      bool       `json:"ready"`
	SnapshotAt *time.Time `json:"snapshot_at,omitempty"`
	AgeSeconds float64    `json:"age_seconds,omitempty"`
}
