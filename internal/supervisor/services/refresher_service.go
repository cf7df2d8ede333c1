// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package services

import (
	"context"
	"time"

	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/models"
)

// SnapshotRefresher matches the snapshot provider's Refresh method.
//
// Satisfied by *snapshot.Provider from internal/snapshot/provider.go.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
}

// RefresherService pulls a fresh operations snapshot on a fixed
// interval. A failed pull is logged and the loop keeps going: the
// provider holds the previous evaluation, so one bad cycle only means
// staler data, never an outage.
//
// Example:
//
//	svc := services.NewRefresherService(provider, cfg.Refresh.Interval,
//		cfg.Refresh.Timeout, cfg.Refresh.OnStartup)
//	tree.AddDataService(svc)
type RefresherService struct {
	refresher SnapshotRefresher
	interval  time.Duration
	timeout   time.Duration
	onStartup bool
	name      string
}

// NewRefresherService creates a new snapshot refresher service. When
// onStartup is true the first refresh runs immediately instead of
// waiting a full interval.
func NewRefresherService(refresher SnapshotRefresher, interval, timeout time.Duration, onStartup bool) *RefresherService {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RefresherService{
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		onStartup: onStartup,
		name:      "snapshot-refresher",
	}
}

// Serve implements suture.Service. It returns ctx.Err() on shutdown and
// never returns for any other reason: refresh failures are absorbed
// here, not escalated to the supervisor.
func (s *RefresherService) Serve(ctx context.Context) error {
	if s.onStartup {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh runs one pull with a per-attempt deadline.
func (s *RefresherService) refresh(ctx context.Context) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.refresher.Refresh(attemptCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Warn().
			Err(err).
			Dur("retry_in", s.interval).
			Msg("Scheduled snapshot refresh failed")
	}
}

// String implements fmt.Stringer; suture uses it in event logs.
func (s *RefresherService) String() string {
	return s.name
}
