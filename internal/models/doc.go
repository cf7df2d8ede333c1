// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

/*
Package models defines the HTTP-facing data structures for Fieldscope.

This package contains the API response envelope, the response payloads for
the signal endpoints, and the wire format of the operations platform's
snapshot export. The rule engine's own domain types (jobs, crews, signals)
live in internal/signals; this package layers the transport shapes on top.

Model Categories:

1. API Envelope:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp, snapshot provenance, eval time)

2. Signal Endpoint Payloads:
  - SignalsResponse: Ranked signal list with count
  - SignalSummary: Severity and rule breakdowns for dashboard tiles
  - RefreshResult: Outcome of a snapshot refresh
  - HealthStatus / ReadyStatus: Probe payloads

3. Upstream Wire Format:
  - OperationsSnapshot: The point-in-time export fetched from the
    operations platform, converted to a signals.Input via ToInput

Usage Example - API Response:

	import "github.com/fieldscope/fieldscope/internal/models"

	// Success response
	response := models.APIResponse{
	    Status: "success",
	    Data: models.SignalsResponse{
	        Signals: candidates,
	        Count:   len(candidates),
	    },
	    Metadata: models.Metadata{
	        Timestamp:  time.Now().UTC(),
	        SnapshotAt: &snapshotAt,
	        EvalTimeMS: 2,
	    },
	}

	json.NewEncoder(w).Encode(response)

	// Error response
	errorResponse := models.APIResponse{
	    Status: "error",
	    Error: &models.APIError{
	        Code:    "NO_SNAPSHOT",
	        Message: "No operations snapshot has been loaded yet",
	    },
	}

Usage Example - Snapshot Conversion:

	var snap models.OperationsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
	    return err
	}

	input, err := snap.ToInput(cfg.Thresholds)
	if err != nil {
	    return err // malformed capture timestamp, keep previous snapshot
	}
	candidates := signals.Build(input)

Thread Safety:

All models are data structures only:
  - Immutable after creation (pass-by-value or pointers)
  - Safe for concurrent read access
  - No internal mutexes needed

JSON Marshaling:

  - Envelope and payload fields use snake_case tags
  - The upstream snapshot uses the platform's camelCase field names
  - Omitempty tags for optional fields
  - time.Time uses RFC3339 format

See Also:

  - internal/signals: Rule engine and domain types
  - internal/api: Handlers returning these models
  - internal/snapshot: Upstream client decoding OperationsSnapshot
*/
package models
