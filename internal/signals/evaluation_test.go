// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	ev := newEvaluation(baseInput(testNow))

	tests := []struct {
		name   string
		value  string
		want   time.Time
		wantOK bool
	}{
		{"rfc3339", "2026-03-14T09:30:00Z", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"fractional seconds", "2026-03-14T09:30:00.250Z", time.Date(2026, 3, 14, 9, 30, 0, 250_000_000, time.UTC), true},
		{"zoned", "2026-03-14T09:30:00+10:00", time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("", 10*3600)), true},
		{"bare calendar date", "2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"prose", "two hours ago", time.Time{}, false},
		{"truncated", "2026-03-14T09", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ev.parseTime(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
			// Memoized second call must agree.
			again, okAgain := ev.parseTime(tt.value)
			if okAgain != ok || (ok && !again.Equal(got)) {
				t.Errorf("second parse of %q disagrees", tt.value)
			}
		})
	}
}

func TestHumanizeMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "1 minute"},
		{1, "1 minute"},
		{-1, "1 minute"},
		{2, "2 minutes"},
		{-30, "30 minutes"},
		{119, "119 minutes"},
		{120, "2 hours"},
		{47 * 60, "47 hours"},
		{48 * 60, "2 days"},
		{3 * 24 * 60, "3 days"},
	}
	for _, tt := range tests {
		if got := humanizeMinutes(tt.minutes); got != tt.want {
			t.Errorf("humanizeMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestCrewCoordinates(t *testing.T) {
	site := Coordinates{Lat: -37.8136, Lng: 144.9631}
	in := baseInput(testNow)
	in.Jobs = []Job{
		{ID: "j-geo", Coordinates: &site},
		{ID: "j-ungeo"},
	}
	ev := newEvaluation(in)

	tests := []struct {
		name   string
		crew   Crew
		want   Coordinates
		wantOK bool
	}{
		{
			"explicit coordinates win",
			Crew{Location: &CrewLocation{Coordinates: &Coordinates{Lat: 1, Lng: 2}, JobID: "j-geo"}},
			Coordinates{Lat: 1, Lng: 2}, true,
		},
		{
			"sentinel coordinates fall through to the job site",
			Crew{Location: &CrewLocation{Coordinates: &Coordinates{}, JobID: "j-geo"}},
			site, true,
		},
		{
			"job site reference resolves",
			Crew{Location: &CrewLocation{JobID: "j-geo"}},
			site, true,
		},
		{
			"job without coordinates resolves nothing",
			Crew{Location: &CrewLocation{JobID: "j-ungeo"}},
			Coordinates{}, false,
		},
		{
			"unknown job reference",
			Crew{Location: &CrewLocation{JobID: "j-gone"}},
			Coordinates{}, false,
		},
		{
			"no location at all",
			Crew{},
			Coordinates{}, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ev.crewCoordinates(&tt.crew)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("crewCoordinates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJobStateHelpers(t *testing.T) {
	if !jobInProgress(&Job{Status: JobStatusInProgress}) {
		t.Error("status in_progress should count as in progress")
	}
	if !jobInProgress(&Job{Status: JobStatusScheduled, ProgressStatus: ProgressHalfComplete}) {
		t.Error("half_complete progress should count as in progress")
	}
	if jobInProgress(&Job{Status: JobStatusScheduled, ProgressStatus: ProgressNotStarted}) {
		t.Error("a scheduled, not-started job is not in progress")
	}
	if !jobCompleted(&Job{Status: JobStatusCompleted}) {
		t.Error("status completed should count as completed")
	}
	if !jobCompleted(&Job{Status: JobStatusInProgress, ProgressStatus: ProgressCompleted}) {
		t.Error("completed progress should count as completed")
	}
	if jobCompleted(&Job{Status: JobStatusInProgress}) {
		t.Error("an in-progress job is not completed")
	}
}
