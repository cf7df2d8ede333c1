// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "testing"

func conflictInput(assignments []Assignment) *Input {
	in := baseInput(testNow)
	in.Crews = []Crew{{
		ID: "crew-x", Name: "Xray", Active: true, State: CrewStateOnJob,
		Location: &CrewLocation{Source: LocationSourceGPS},
	}}
	in.Assignments = assignments
	return in
}

func TestDetectScheduleConflict_OverlappingPair(t *testing.T) {
	in := conflictInput([]Assignment{
		{ID: "a-A", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled}, // 09:00-11:00
		{ID: "a-B", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled}, // 10:00-12:00
	})

	got := byRule(Build(in), RuleScheduleConflict)
	if len(got) != 1 {
		t.Fatalf("expected exactly one conflict signal, got %d", len(got))
	}
	sig := got[0]
	if sig.ID != "schedule_conflict:crew:crew-x:a-A|a-B" {
		t.Errorf("ID = %q", sig.ID)
	}
	if sig.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", sig.Severity)
	}
	ev, ok := sig.Evidence.(ScheduleConflictEvidence)
	if !ok {
		t.Fatalf("evidence type %T", sig.Evidence)
	}
	if ev.OverlapMinutes != 60 {
		t.Errorf("OverlapMinutes = %d, want 60", ev.OverlapMinutes)
	}
	if ev.First.AssignmentID != "a-A" || ev.Second.AssignmentID != "a-B" {
		t.Errorf("pair order = %s then %s, want a-A then a-B", ev.First.AssignmentID, ev.Second.AssignmentID)
	}
	if ev.Date != "2026-03-14" {
		t.Errorf("Date = %q", ev.Date)
	}
}

func TestDetectScheduleConflict_PairOrderIndependent(t *testing.T) {
	forward := conflictInput([]Assignment{
		{ID: "a-A", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
		{ID: "a-B", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled},
	})
	reversed := conflictInput([]Assignment{
		{ID: "a-B", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled},
		{ID: "a-A", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
	})

	first := byRule(Build(forward), RuleScheduleConflict)
	second := byRule(Build(reversed), RuleScheduleConflict)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one signal each way, got %d and %d", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("input order changed the ID: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestDetectScheduleConflict_NonConflicts(t *testing.T) {
	tests := []struct {
		name        string
		assignments []Assignment
	}{
		{
			"back-to-back blocks don't overlap",
			[]Assignment{
				{ID: "a-1", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
				{ID: "a-2", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 660, EndMinute: 780, Status: AssignmentScheduled},
			},
		},
		{
			"same window on different days",
			[]Assignment{
				{ID: "a-1", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
				{ID: "a-2", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-15",
					StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
			},
		},
		{
			"cancelled block dropped",
			[]Assignment{
				{ID: "a-1", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 540, EndMinute: 660, Status: AssignmentCancelled},
				{ID: "a-2", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled},
			},
		},
		{
			"completed block dropped",
			[]Assignment{
				{ID: "a-1", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 540, EndMinute: 660, Status: AssignmentCompleted},
				{ID: "a-2", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
					StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled},
			},
		},
		{
			"unassigned blocks conflict with nobody",
			[]Assignment{
				{ID: "a-1", JobID: "j-1", Date: "2026-03-14",
					StartMinute: 540, EndMinute: 660, Status: AssignmentScheduled},
				{ID: "a-2", JobID: "j-2", Date: "2026-03-14",
					StartMinute: 600, EndMinute: 720, Status: AssignmentScheduled},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := byRule(Build(conflictInput(tt.assignments)), RuleScheduleConflict)
			if len(got) != 0 {
				t.Fatalf("expected no conflict signals, got %d", len(got))
			}
		})
	}
}

func TestDetectScheduleConflict_EveryOverlappingPairEmits(t *testing.T) {
	in := conflictInput([]Assignment{
		{ID: "a-1", JobID: "j-1", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 540, EndMinute: 720, Status: AssignmentScheduled},
		{ID: "a-2", JobID: "j-2", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 600, EndMinute: 780, Status: AssignmentScheduled},
		{ID: "a-3", JobID: "j-3", CrewID: "crew-x", Date: "2026-03-14",
			StartMinute: 660, EndMinute: 840, Status: AssignmentInProgress},
	})

	got := byRule(Build(in), RuleScheduleConflict)
	if len(got) != 3 {
		t.Fatalf("three mutually overlapping blocks should emit three pair signals, got %d", len(got))
	}
	wantIDs := map[string]bool{
		"schedule_conflict:crew:crew-x:a-1|a-2": false,
		"schedule_conflict:crew:crew-x:a-1|a-3": false,
		"schedule_conflict:crew:crew-x:a-2|a-3": false,
	}
	for _, sig := range got {
		if _, expected := wantIDs[sig.ID]; !expected {
			t.Errorf("unexpected ID %q", sig.ID)
			continue
		}
		wantIDs[sig.ID] = true
	}
	for id, seen := range wantIDs {
		if !seen {
			t.Errorf("missing pair signal %q", id)
		}
	}
}
