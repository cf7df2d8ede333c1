// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

/*
Package snapshot fetches and caches the operational snapshot the rule
engine evaluates.

The package has two halves:

  - Client: pulls the pre-joined snapshot from the operations platform's
    export endpoint. Every fetch passes through a token-bucket rate
    limiter (the platform is a shared production system) and a circuit
    breaker (sony/gobreaker) so a struggling upstream is backed off
    rather than hammered.

  - Provider: holds the last good snapshot and its evaluated signal set
    behind an RWMutex. Refresh fetches, converts, evaluates, and swaps
    the cache in one step; readers get the previous result until a new
    one is fully built, so API responses never observe a half-refreshed
    state. Before the first successful refresh, readers get ErrNoSnapshot
    and the API answers 503.

Evaluation happens once per refresh, not per request: the engine is pure
and the snapshot only changes on refresh, so its output is cached next to
its input.

# Failure Semantics

A failed refresh never disturbs the cache. The provider classifies the
failure (upstream error, decode error, rejected snapshot) for metrics,
logs it, and keeps serving the previous snapshot with its age gauge
climbing. Staleness is therefore visible in snapshot_age_seconds rather
than in request errors.
*/
package snapshot
