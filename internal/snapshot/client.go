// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/fieldscope/fieldscope/internal/config"
	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/metrics"
	"github.com/fieldscope/fieldscope/internal/models"
)

// SnapshotPath is the operations platform's export endpoint, relative to
// the configured base URL.
const SnapshotPath = "/api/v1/operations/snapshot"

// maxSnapshotBytes caps the response body read. A full tenant snapshot is
// a few megabytes at most; anything larger is a broken upstream.
const maxSnapshotBytes = 64 << 20

// Sentinel errors for snapshot fetching. Callers classify failures with
// errors.Is rather than string matching.
var (
	// ErrUpstreamUnavailable wraps transport failures and non-200
	// responses from the operations platform.
	ErrUpstreamUnavailable = errors.New("operations platform unavailable")

	// ErrDecode wraps malformed snapshot payloads.
	ErrDecode = errors.New("snapshot decode failed")

	// ErrRateLimited is returned when the local fetch budget is spent.
	// The breaker does not count these: they are self-inflicted.
	ErrRateLimited = errors.New("snapshot fetch rate limit exceeded")
)

// Client fetches operational snapshots from the operations platform.
//
// Every fetch passes through a token-bucket rate limiter and a circuit
// breaker. The breaker uses real time for its recovery windows; tests
// exercise failure handling through the HTTP layer instead of mocking it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker[*models.OperationsSnapshot]
	limiter    *rate.Limiter
	name       string
}

// NewClient creates a snapshot client for the configured upstream.
//
// Breaker configuration:
//   - Opens at >= 60% failure rate with at least 10 requests observed
//   - 1 minute measurement window in the closed state
//   - 2 minutes open before probing
//   - 3 concurrent probes in the half-open state
func NewClient(cfg *config.UpstreamConfig) *Client {
	cbName := "operations-snapshot"

	metrics.SetCircuitBreakerState(cbName, 0) // 0 = closed

	breaker := gobreaker.NewCircuitBreaker[*models.OperationsSnapshot](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit to operations platform")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.SetCircuitBreakerState(name, stateToInt(to))
			metrics.RecordCircuitBreakerTransition(name, fromStr, toStr)
		},
	})

	// Burst 1: snapshot fetches are periodic, not bursty, and each one is
	// expensive on the platform side.
	var limiter *rate.Limiter
	if cfg.FetchesPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.FetchesPerMinute)/60.0), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		breaker:    breaker,
		limiter:    limiter,
		name:       cbName,
	}
}

// Fetch retrieves one snapshot. Returns ErrRateLimited when the fetch
// budget is spent, gobreaker's rejection errors when the circuit is open,
// ErrUpstreamUnavailable on transport or HTTP failures, and ErrDecode on
// malformed payloads.
func (c *Client) Fetch(ctx context.Context) (*models.OperationsSnapshot, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.RecordCircuitBreakerRequest(c.name, "rejected")
		return nil, ErrRateLimited
	}

	snap, err := c.breaker.Execute(func() (*models.OperationsSnapshot, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordCircuitBreakerRequest(c.name, "rejected")
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Snapshot fetch rejected")
			return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		metrics.RecordCircuitBreakerRequest(c.name, "failure")
		return nil, err
	}

	metrics.RecordCircuitBreakerRequest(c.name, "success")
	return snap, nil
}

// fetch performs the HTTP exchange without breaker or limiter involvement.
func (c *Client) fetch(ctx context.Context) (*models.OperationsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+SnapshotPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("Error closing snapshot response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused, then report.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	snap := &models.OperationsSnapshot{}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err := dec.Decode(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if snap.TakenAt == "" {
		return nil, fmt.Errorf("%w: snapshot missing takenAt", ErrDecode)
	}

	return snap, nil
}

// stateToInt converts a breaker state to the metrics gauge value.
func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts a breaker state to its log label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
