// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"testing"
	"time"
)

func TestFinalize_IDConstruction(t *testing.T) {
	plain := finalize(draft{
		rule: RuleCrewIdle, entityType: EntityCrew, entityID: "c-1",
		severity: SeverityInfo, detectedAt: testNow,
	}, testNow)
	if plain.ID != "crew_idle:crew:c-1" {
		t.Errorf("ID = %q", plain.ID)
	}

	keyed := finalize(draft{
		rule: RuleScheduleConflict, entityType: EntityCrew, entityID: "c-1",
		disambiguator: "a-1|a-2", severity: SeverityWarning, detectedAt: testNow,
	}, testNow)
	if keyed.ID != "schedule_conflict:crew:c-1:a-1|a-2" {
		t.Errorf("ID = %q", keyed.ID)
	}
}

func TestFinalize_DetectedAtClamping(t *testing.T) {
	tests := []struct {
		name       string
		detectedAt time.Time
		want       time.Time
	}{
		{"past moment is kept", testNow.Add(-time.Hour), testNow.Add(-time.Hour)},
		{"future moment clamps to now", testNow.Add(time.Hour), testNow},
		{"zero value clamps to now", time.Time{}, testNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finalize(draft{
				rule: RuleCrewIdle, entityType: EntityCrew, entityID: "c-1",
				severity: SeverityInfo, detectedAt: tt.detectedAt,
			}, testNow)
			if !got.DetectedAt.Equal(tt.want) || !got.CreatedAt.Equal(tt.want) {
				t.Errorf("DetectedAt = %v, CreatedAt = %v, want %v", got.DetectedAt, got.CreatedAt, tt.want)
			}
		})
	}
}

func TestFinalize_MetadataMirrorsEvidence(t *testing.T) {
	withEvidence := finalize(draft{
		rule: RuleCrewIdle, entityType: EntityCrew, entityID: "c-1",
		severity:   SeverityInfo,
		detectedAt: testNow,
		evidence:   CrewIdleEvidence{IdleMinutes: 50, ThresholdMinutes: 45},
	}, testNow)
	if string(withEvidence.Metadata) != `{"idleMinutes":50,"thresholdMinutes":45}` {
		t.Errorf("Metadata = %s", withEvidence.Metadata)
	}

	bare := finalize(draft{
		rule: RuleCrewIdle, entityType: EntityCrew, entityID: "c-1",
		severity: SeverityInfo, detectedAt: testNow,
	}, testNow)
	if bare.Metadata != nil {
		t.Errorf("Metadata = %s, want none", bare.Metadata)
	}
}

func TestPairKey_OrderInsensitive(t *testing.T) {
	if pairKey("a-2", "a-1") != "a-1|a-2" {
		t.Errorf("pairKey(a-2, a-1) = %q", pairKey("a-2", "a-1"))
	}
	if pairKey("a-1", "a-2") != pairKey("a-2", "a-1") {
		t.Error("pairKey depends on argument order")
	}
}

func TestSortCandidates(t *testing.T) {
	mk := func(id string, sev Severity, at time.Time) Candidate {
		return Candidate{ID: id, Severity: sev, CreatedAt: at}
	}
	candidates := []Candidate{
		mk("info-new", SeverityInfo, testNow),
		mk("warn-old", SeverityWarning, testNow.Add(-2*time.Hour)),
		mk("crit-old", SeverityCritical, testNow.Add(-3*time.Hour)),
		mk("warn-tie-a", SeverityWarning, testNow.Add(-time.Hour)),
		mk("warn-tie-b", SeverityWarning, testNow.Add(-time.Hour)),
		mk("crit-new", SeverityCritical, testNow),
	}

	sortCandidates(candidates)

	wantOrder := []string{
		"crit-new", "crit-old",
		"warn-tie-a", "warn-tie-b", "warn-old",
		"info-new",
	}
	for i, want := range wantOrder {
		if candidates[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, candidates[i].ID, want)
		}
	}
}
