// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package signals derives ranked, explainable operational signals from a
// point-in-time snapshot of a field-service business: jobs, crews,
// assignments, crew-swap history, and financial/invoice/activity rollups.
//
// Signal Architecture:
//
//	Snapshot -> rule evaluations -> drafts -> finalize -> sorted []Candidate
//
// Build is a pure function. It performs no I/O, reads no clocks (the
// snapshot carries its own Now), mutates nothing it is given, and never
// fails: malformed per-entity data (an unparseable timestamp, a missing
// aggregate) causes the affected rule to skip that entity rather than
// abort the run. Calling Build twice with the same snapshot yields
// byte-identical output, including candidate IDs and ordering.
//
// Detection Rules:
//   - scheduled_unassigned: scheduled jobs with no crew, escalating as the
//     start approaches and passes
//   - crew_swap_near_start: crew reassignments landing close to a job start
//   - late_risk: imminent or passed starts with no crew en route or on site
//   - no_progress: in-progress jobs with no recent activity of any kind
//   - time_risk: logged or elapsed time overrunning the plan
//   - materials_missing: planned materials with zero usage after a grace
//     window
//   - margin_risk: realtime or projected profitability problems
//   - completed_unpaid: finished work with outstanding invoice balance
//   - idle_crew_nearby: idle capacity within dispatch range of an at-risk
//     job
//   - crew_idle: crews idle past the configured threshold
//   - crew_en_route_delay: crews still driving after the next start passed
//   - stale_location: crews whose last location fix is old or absent
//   - schedule_conflict: overlapping same-day assignments for one crew
//
// Every candidate carries a deterministic ID derived from rule, entity and
// (where a rule can fire more than once per entity) a disambiguator built
// from sorted secondary IDs, so downstream consumers can deduplicate and
// re-run the engine idempotently.
package signals
