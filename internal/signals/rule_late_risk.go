// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// CrewStateSnapshot pairs a crew with its dispatch state inside evidence,
// in the job's assignment order.
type CrewStateSnapshot struct {
	CrewID string    `json:"crewId"`
	State  CrewState `json:"state"`
}

// LateRiskEvidence explains a late_risk signal. MinutesToStart is negative
// once the start has passed. AssignedCrewIDs is the raw assignment list;
// CrewStates only covers crews present in the snapshot's crew index, so a
// dangling reference still shows up in the former.
type LateRiskEvidence struct {
	ScheduledStart  string              `json:"scheduledStart"`
	MinutesToStart  int                 `json:"minutesToStart"`
	AssignedCrewIDs []string            `json:"assignedCrewIds,omitempty"`
	CrewStates      []CrewStateSnapshot `json:"crewStates,omitempty"`
	WindowMinutes   int                 `json:"windowMinutes"`
}

// detectLateRisk flags jobs whose start is inside the late-risk window —
// imminent or already passed — while none of the assigned crews are moving
// (en_route) or on site (on_job). Critical once the start has passed,
// warning while it is still ahead. A job with no assigned crews at all
// qualifies: nobody is coming either way.
func detectLateRisk(ev *evaluation) []draft {
	var drafts []draft
	window := minutesDuration(ev.in.Thresholds.LateRiskMinutes)

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if jobCompleted(job) {
			continue
		}
		start, ok := ev.parseTime(job.ScheduledStart)
		if !ok {
			continue
		}
		offset := start.Sub(ev.now)
		if offset > window || offset < -window {
			continue
		}

		covered := false
		states := make([]CrewStateSnapshot, 0, len(job.CrewIDs))
		var origin *Crew
		for _, crewID := range job.CrewIDs {
			crew, found := ev.crewsByID[crewID]
			if !found {
				continue
			}
			states = append(states, CrewStateSnapshot{CrewID: crewID, State: crew.State})
			if crew.State == CrewStateEnRoute || crew.State == CrewStateOnJob {
				covered = true
			}
			if origin == nil {
				origin = crew
			}
		}
		if covered {
			continue
		}

		minutesToStart := ev.minutesUntil(start)
		severity := SeverityWarning
		detected := start.Add(-window)
		reason := fmt.Sprintf("Starts in %s and no crew is en route or on site.",
			humanizeMinutes(minutesToStart))
		if !start.After(ev.now) {
			severity = SeverityCritical
			detected = start
			reason = fmt.Sprintf("The start passed %s ago and no crew is en route or on site.",
				humanizeMinutes(minutesToStart))
		}

		drafts = append(drafts, draft{
			rule:       RuleLateRisk,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   severity,
			headline:   jobLabel(job) + " is at risk of starting late",
			reason:     reason,
			detectedAt: detected,
			evidence: LateRiskEvidence{
				ScheduledStart:  job.ScheduledStart,
				MinutesToStart:  minutesToStart,
				AssignedCrewIDs: job.CrewIDs,
				CrewStates:      states,
				WindowMinutes:   ev.in.Thresholds.LateRiskMinutes,
			},
			actions: []string{
				"Dispatch the assigned crew now",
				"Reassign to the nearest available crew",
				"Warn the customer about a possible delay",
			},
			links: ev.jobDeepLinks(job, origin),
		})
	}
	return drafts
}
