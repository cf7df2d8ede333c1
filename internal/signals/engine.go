// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

// ruleFunc evaluates one rule over the whole snapshot and returns zero or
// more drafts. Rules are independent: none reads another's output, and
// each one skips entities it cannot evaluate instead of failing.
type ruleFunc func(*evaluation) []draft

// ruleSet fixes the evaluation order. Rules don't interact, so the order
// only determines encounter order for candidates that tie on both severity
// and timestamp after the stable sort.
var ruleSet = []ruleFunc{
	detectScheduledUnassigned,
	detectCrewSwapNearStart,
	detectLateRisk,
	detectNoProgress,
	detectTimeRisk,
	detectMaterialsMissing,
	detectMarginRisk,
	detectCompletedUnpaid,
	detectIdleCrewNearby,
	detectCrewIdle,
	detectEnRouteDelay,
	detectStaleLocation,
	detectScheduleConflict,
}

// Build evaluates every rule against the snapshot and returns the ranked
// signal list: severity descending, then DetectedAt descending.
//
// Build is pure. It never returns an error and never panics on malformed
// per-entity data; see the package documentation for the degradation
// rules. The returned slice is always non-nil — a clean snapshot yields an
// empty slice, not null, so API serialization stays shape-stable.
func Build(in *Input) []Candidate {
	candidates := make([]Candidate, 0)
	if in == nil {
		return candidates
	}

	ev := newEvaluation(in)
	for _, run := range ruleSet {
		for _, d := range run(ev) {
			candidates = append(candidates, finalize(d, ev.now))
		}
	}

	sortCandidates(candidates)
	return candidates
}
