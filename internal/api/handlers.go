// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/models"
	"github.com/fieldscope/fieldscope/internal/signals"
	"github.com/fieldscope/fieldscope/internal/snapshot"
	"github.com/fieldscope/fieldscope/internal/validation"
)

// maxPreviewBytes caps the preview request body. A full snapshot for one
// tenant fits comfortably; anything larger is abuse.
const maxPreviewBytes = 16 << 20

// SignalSource supplies cached signals and snapshot lifecycle operations.
// Satisfied by *snapshot.Provider; tests substitute a fake.
type SignalSource interface {
	Signals() ([]signals.Candidate, time.Time, error)
	SnapshotAt() (time.Time, bool)
	Age(now time.Time) (time.Duration, bool)
	Refresh(ctx context.Context) (*models.RefreshResult, error)
}

// Handler implements the HTTP endpoints. All state lives in the snapshot
// provider; the handler itself is stateless and safe for concurrent use.
type Handler struct {
	source     SignalSource
	maxSignals int
	version    string
}

// NewHandler creates the endpoint handler. maxSignals caps the `limit`
// query parameter on the listing endpoint.
func NewHandler(source SignalSource, maxSignals int, version string) *Handler {
	return &Handler{
		source:     source,
		maxSignals: maxSignals,
		version:    version,
	}
}

// Signals serves GET /api/v1/signals: the ranked signal list from the
// cached snapshot, optionally filtered by severity, entity_type, and
// limit. Filtering preserves the engine's ordering.
func (h *Handler) Signals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	severity, ok := parseSeverity(q.Get("severity"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest,
			"severity must be one of info, warning, critical")
		return
	}
	entityType, ok := parseEntityType(q.Get("entity_type"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest,
			"entity_type must be one of job, crew, system")
		return
	}
	limit, ok := h.parseLimit(q.Get("limit"))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest,
			"limit must be a positive integer no greater than "+strconv.Itoa(h.maxSignals))
		return
	}

	candidates, snapshotAt, err := h.source.Signals()
	if err != nil {
		h.writeNoSnapshot(w, err)
		return
	}

	filtered := make([]signals.Candidate, 0, len(candidates))
	truncated := false
	for _, c := range candidates {
		if severity != "" && c.Severity != severity {
			continue
		}
		if entityType != "" && c.EntityType != entityType {
			continue
		}
		if limit > 0 && len(filtered) == limit {
			truncated = true
			break
		}
		filtered = append(filtered, c)
	}

	writeSuccess(w, models.SignalsResponse{
		Signals:   filtered,
		Count:     len(filtered),
		Truncated: truncated,
	}, models.Metadata{SnapshotAt: &snapshotAt, Cached: true})
}

// Summary serves GET /api/v1/signals/summary: counts by severity and by
// rule for dashboard tiles.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	candidates, snapshotAt, err := h.source.Signals()
	if err != nil {
		h.writeNoSnapshot(w, err)
		return
	}

	summary := models.SignalSummary{
		Total:      len(candidates),
		BySeverity: make(map[string]int, 3),
		ByRule:     make(map[string]int),
	}
	for _, c := range candidates {
		summary.BySeverity[string(c.Severity)]++
		summary.ByRule[string(c.Type)]++
	}
	if age, ok := h.source.Age(time.Now()); ok {
		summary.SnapshotAgeSeconds = age.Seconds()
	}

	writeSuccess(w, summary, models.Metadata{SnapshotAt: &snapshotAt, Cached: true})
}

// Preview serves POST /api/v1/signals/preview: the pure engine exposed
// over HTTP for what-if tooling. The caller supplies a complete snapshot
// (including thresholds) in the body; nothing is cached.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var input signals.Input

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBytes))
	if err := dec.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "request body is not a valid snapshot: "+err.Error())
		return
	}

	if verr := validation.ValidateStruct(input); verr != nil {
		apiErr := verr.ToAPIError()
		writeErrorDetails(w, http.StatusBadRequest, ErrCodeValidationFailed, apiErr.Message, apiErr.Details)
		return
	}

	evalStart := time.Now()
	candidates := signals.Build(&input)
	evalDuration := time.Since(evalStart)

	snapshotAt := input.Now
	writeSuccess(w, models.SignalsResponse{
		Signals: candidates,
		Count:   len(candidates),
	}, models.Metadata{SnapshotAt: &snapshotAt, EvalTimeMS: evalDuration.Milliseconds()})
}

// Refresh serves POST /api/v1/snapshot/refresh: a forced pull through the
// snapshot gateway. The upstream fetch budget still applies.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.source.Refresh(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests,
				"snapshot fetch budget exhausted, try again shortly")
		default:
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Manual snapshot refresh failed")
			writeError(w, http.StatusBadGateway, ErrCodeUpstreamError,
				"the operations platform refused or failed the refresh")
		}
		return
	}

	writeSuccess(w, result, models.Metadata{SnapshotAt: &result.SnapshotAt})
}

// Health serves GET /health: process liveness only.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, models.HealthStatus{Status: "ok", Version: h.version}, models.Metadata{})
}

// Ready serves GET /ready: the service is ready once a snapshot is
// loaded. Kubernetes-style consumers gate traffic on this.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	snapshotAt, ok := h.source.SnapshotAt()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, models.APIResponse{
			Status: "error",
			Data:   models.ReadyStatus{Ready: false},
			Error: &models.APIError{
				Code:    ErrCodeNoSnapshot,
				Message: "No operations snapshot has been loaded yet",
			},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		})
		return
	}

	age, _ := h.source.Age(time.Now())
	writeSuccess(w, models.ReadyStatus{
		Ready:      true,
		SnapshotAt: &snapshotAt,
		AgeSeconds: age.Seconds(),
	}, models.Metadata{SnapshotAt: &snapshotAt})
}

// writeNoSnapshot maps provider read errors onto the 503 NO_SNAPSHOT
// contract. Anything else from the provider is a programming error.
func (h *Handler) writeNoSnapshot(w http.ResponseWriter, err error) {
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		writeError(w, http.StatusServiceUnavailable, ErrCodeNoSnapshot,
			"No operations snapshot has been loaded yet")
		return
	}
	logging.Error().Err(err).Msg("Unexpected signal source failure")
	writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
}

// parseSeverity validates the severity filter. Empty means no filter.
func parseSeverity(raw string) (signals.Severity, bool) {
	switch signals.Severity(raw) {
	case "", signals.SeverityInfo, signals.SeverityWarning, signals.SeverityCritical:
		return signals.Severity(raw), true
	default:
		return "", false
	}
}

// parseEntityType validates the entity_type filter. Empty means no filter.
func parseEntityType(raw string) (signals.EntityType, bool) {
	switch signals.EntityType(raw) {
	case "", signals.EntityJob, signals.EntityCrew, signals.EntitySystem:
		return signals.EntityType(raw), true
	default:
		return "", false
	}
}

// parseLimit validates the limit parameter. Zero means no limit below the
// configured maximum, which always applies.
func (h *Handler) parseLimit(raw string) (int, bool) {
	if raw == "" {
		return h.maxSignals, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > h.maxSignals {
		return 0, false
	}
	return limit, true
}
