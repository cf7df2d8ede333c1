// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"math"
	"time"
)

// evaluation is the per-invocation working state shared by all rules:
// the snapshot, ID-keyed indexes over it, and a memoized timestamp parse
// cache. It lives for exactly one Build call — keeping the cache here
// rather than at package level is what keeps Build pure.
type evaluation struct {
	in  *Input
	now time.Time

	jobsByID          map[string]*Job
	crewsByID         map[string]*Crew
	assignmentsByID   map[string]*Assignment
	assignmentsByJob  map[string][]*Assignment
	assignmentsByCrew map[string][]*Assignment

	parsed   map[string]time.Time
	unparsed map[string]struct{}
}

func newEvaluation(in *Input) *evaluation {
	ev := &evaluation{
		in:                in,
		now:               in.Now,
		jobsByID:          make(map[string]*Job, len(in.Jobs)),
		crewsByID:         make(map[string]*Crew, len(in.Crews)),
		assignmentsByID:   make(map[string]*Assignment, len(in.Assignments)),
		assignmentsByJob:  make(map[string][]*Assignment),
		assignmentsByCrew: make(map[string][]*Assignment),
		parsed:            make(map[string]time.Time),
		unparsed:          make(map[string]struct{}),
	}
	for i := range in.Jobs {
		ev.jobsByID[in.Jobs[i].ID] = &in.Jobs[i]
	}
	for i := range in.Crews {
		ev.crewsByID[in.Crews[i].ID] = &in.Crews[i]
	}
	for i := range in.Assignments {
		a := &in.Assignments[i]
		ev.assignmentsByID[a.ID] = a
		ev.assignmentsByJob[a.JobID] = append(ev.assignmentsByJob[a.JobID], a)
		if a.CrewID != "" {
			ev.assignmentsByCrew[a.CrewID] = append(ev.assignmentsByCrew[a.CrewID], a)
		}
	}
	return ev
}

// parseTime parses an RFC 3339 timestamp (with or without fractional
// seconds) or a bare calendar date, memoized per evaluation. ok is false
// for empty or unparseable values; callers skip the entity in that case
// rather than failing the run.
func (ev *evaluation) parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, ok := ev.parsed[value]; ok {
		return t, true
	}
	if _, bad := ev.unparsed[value]; bad {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		ev.unparsed[value] = struct{}{}
		return time.Time{}, false
	}
	ev.parsed[value] = t
	return t, true
}

// minutesSince returns whole minutes from t to the snapshot instant,
// rounded half away from zero. Negative when t is in the future.
func (ev *evaluation) minutesSince(t time.Time) int {
	return roundMinutes(ev.now.Sub(t))
}

// minutesUntil returns whole minutes from the snapshot instant to t.
// Negative when t has passed.
func (ev *evaluation) minutesUntil(t time.Time) int {
	return roundMinutes(t.Sub(ev.now))
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

// minutesDuration converts a minute-denominated threshold into a Duration.
func minutesDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}

// jobInProgress reports whether a job counts as actively being worked:
// either its scheduling status or its on-site progress says so.
func jobInProgress(job *Job) bool {
	if job.Status == JobStatusInProgress {
		return true
	}
	return job.ProgressStatus == ProgressInProgress || job.ProgressStatus == ProgressHalfComplete
}

// jobCompleted reports whether a job is finished by either status axis.
func jobCompleted(job *Job) bool {
	return job.Status == JobStatusCompleted || job.ProgressStatus == ProgressCompleted
}

// jobLabel is the human name used in headlines; falls back to the ID for
// jobs saved without a title.
func jobLabel(job *Job) string {
	if job.Title != "" {
		return job.Title
	}
	return "Job " + job.ID
}

// crewLabel is the human name used in headlines.
func crewLabel(crew *Crew) string {
	if crew.Name != "" {
		return crew.Name
	}
	return "Crew " + crew.ID
}

// crewCoordinates resolves a crew's position: explicit coordinates first,
// then the coordinates of the job site it is parked at. ok is false when
// neither resolves — distance rules simply produce no match then.
func (ev *evaluation) crewCoordinates(crew *Crew) (Coordinates, bool) {
	if crew.Location == nil {
		return Coordinates{}, false
	}
	if c := crew.Location.Coordinates; c != nil && c.Known() {
		return *c, true
	}
	if crew.Location.JobID != "" {
		if job, ok := ev.jobsByID[crew.Location.JobID]; ok {
			if job.Coordinates != nil && job.Coordinates.Known() {
				return *job.Coordinates, true
			}
		}
	}
	return Coordinates{}, false
}

// hasLocationSource reports whether the crew has any location provenance
// at all. A crew with no source has never reported a position, which the
// stale-location rule treats as its own warning condition.
func hasLocationSource(crew *Crew) bool {
	return crew.Location != nil && crew.Location.Source != ""
}

// humanizeMinutes renders a minute count for signal prose: "1 minute",
// "45 minutes", "3 hours", "2 days". Coarse on purpose — reasons explain,
// evidence quantifies.
func humanizeMinutes(minutes int) string {
	if minutes < 0 {
		minutes = -minutes
	}
	switch {
	case minutes < 2:
		return "1 minute"
	case minutes < 120:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 48*60:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%d days", minutes/(24*60))
	}
}
