// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/metrics"
	"github.com/fieldscope/fieldscope/internal/models"
	"github.com/fieldscope/fieldscope/internal/signals"
)

// ErrNoSnapshot is returned by readers before the first successful
// refresh. The API maps it to 503 NO_SNAPSHOT.
var ErrNoSnapshot = errors.New("no operations snapshot loaded yet")

// Fetcher retrieves one snapshot from the operations platform. Satisfied
// by *Client; tests substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.OperationsSnapshot, error)
}

// Provider caches the last good snapshot together with its evaluated
// signal set. Refresh swaps both atomically under a write lock; readers
// never observe a half-refreshed state. All methods are safe for
// concurrent use.
type Provider struct {
	fetcher    Fetcher
	thresholds signals.Thresholds

	mu          sync.RWMutex
	input       *signals.Input
	candidates  []signals.Candidate
	snapshotAt  time.Time
	refreshedAt time.Time
}

// NewProvider creates a provider that evaluates fetched snapshots with
// the given thresholds.
func NewProvider(fetcher Fetcher, thresholds signals.Thresholds) *Provider {
	return &Provider{
		fetcher:    fetcher,
		thresholds: thresholds,
	}
}

// Refresh fetches a snapshot, evaluates the rule set against it, and
// swaps the cache. On failure the previous snapshot keeps being served
// and the error is returned for the caller to log or surface.
func (p *Provider) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	start := time.Now()

	snap, err := p.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RecordSnapshotRefresh(refreshStatus(err), time.Since(start))
		return nil, fmt.Errorf("snapshot refresh: %w", err)
	}

	input, err := snap.ToInput(p.thresholds)
	if err != nil {
		metrics.RecordSnapshotRefresh("rejected", time.Since(start))
		return nil, fmt.Errorf("snapshot refresh: %w", err)
	}

	evalStart := time.Now()
	candidates := signals.Build(input)
	evalDuration := time.Since(evalStart)

	bySeverity := make(map[string]int, 3)
	for _, c := range candidates {
		bySeverity[string(c.Severity)]++
		metrics.RecordSignal(string(c.Type), string(c.Severity))
	}
	metrics.RecordEvaluation(evalDuration, bySeverity)

	p.mu.Lock()
	p.input = input
	p.candidates = candidates
	p.snapshotAt = input.Now
	p.refreshedAt = start
	p.mu.Unlock()

	duration := time.Since(start)
	metrics.RecordSnapshotRefresh("success", duration)
	metrics.SetSnapshotAge(time.Since(input.Now))

	logging.Info().
		Time("snapshot_at", input.Now).
		Int("jobs", len(input.Jobs)).
		Int("crews", len(input.Crews)).
		Int("signals", len(candidates)).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("Snapshot refreshed")

	return &models.RefreshResult{
		Status:     "success",
		SnapshotAt: input.Now,
		DurationMS: duration.Milliseconds(),
	}, nil
}

// Signals returns the cached signal set and the capture time of the
// snapshot it was evaluated against. The slice is shared: callers must
// treat it as read-only and copy before filtering.
func (p *Provider) Signals() ([]signals.Candidate, time.Time, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.input == nil {
		return nil, time.Time{}, ErrNoSnapshot
	}
	return p.candidates, p.snapshotAt, nil
}

// SnapshotAt reports the capture time of the cached snapshot, and whether
// one is loaded at all.
func (p *Provider) SnapshotAt() (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.snapshotAt, p.input != nil
}

// Age returns how far behind real time the cached snapshot is. Also
// updates the staleness gauge, so calling it from the readiness probe
// keeps the metric fresh between refreshes.
func (p *Provider) Age(now time.Time) (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.input == nil {
		return 0, false
	}
	age := now.Sub(p.snapshotAt)
	metrics.SetSnapshotAge(age)
	return age, true
}

// refreshStatus classifies a fetch error for the refresh outcome metric.
func refreshStatus(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "upstream_error"
	}
}
