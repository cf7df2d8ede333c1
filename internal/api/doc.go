// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

/*
Package api provides the HTTP surface over the signal engine.

Routing uses chi with route groups per concern: operational probes
(health, readiness, metrics) sit outside the rate-limited /api/v1 group
that serves signal data. Every response uses the shared JSON envelope
from internal/models: {status, data, metadata, error}.

Endpoints:

	GET  /api/v1/signals          ranked signals from the cached snapshot
	GET  /api/v1/signals/summary  counts by severity and rule, snapshot age
	POST /api/v1/signals/preview  evaluate a caller-supplied snapshot
	POST /api/v1/snapshot/refresh force a refresh through the gateway
	GET  /health                  liveness
	GET  /ready                   readiness (a snapshot is loaded)
	GET  /metrics                 prometheus

The handlers are thin: they validate input, call the snapshot provider or
the pure engine, and serialize. Filtering on the listing endpoint never
re-orders — the engine's severity-then-recency ranking is the contract,
and clients receive it untouched.
*/
package api
