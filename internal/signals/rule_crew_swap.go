// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// CrewSwapEvidence explains a crew_swap_near_start signal.
// MinutesFromStart is signed: negative means the swap landed before the
// scheduled start, positive after it.
type CrewSwapEvidence struct {
	AssignmentID     string `json:"assignmentId"`
	PreviousCrewID   string `json:"previousCrewId,omitempty"`
	NextCrewID       string `json:"nextCrewId,omitempty"`
	ChangedAt        string `json:"changedAt"`
	MinutesFromStart int    `json:"minutesFromStart"`
	WindowMinutes    int    `json:"windowMinutes"`
}

// detectCrewSwapNearStart flags crew reassignments that landed close to
// the assignment's scheduled start, in either direction — a last-minute
// swap before the start and a swap made after work should already be
// underway are equally disruptive. One signal per swap event, keyed by the
// event ID, so repeated reshuffling of the same job stays visible.
func detectCrewSwapNearStart(ev *evaluation) []draft {
	var drafts []draft
	window := minutesDuration(ev.in.Thresholds.CrewSwapWindowMinutes)

	for i := range ev.in.CrewSwapEvents {
		event := &ev.in.CrewSwapEvents[i]
		job, ok := ev.jobsByID[event.JobID]
		if !ok || jobCompleted(job) {
			continue
		}
		assignment, ok := ev.assignmentsByID[event.AssignmentID]
		if !ok {
			continue
		}
		start, ok := ev.parseTime(assignment.ScheduledStart)
		if !ok {
			continue
		}
		changed, ok := ev.parseTime(event.ChangedAt)
		if !ok {
			continue
		}

		offset := changed.Sub(start)
		if offset < 0 {
			if -offset > window {
				continue
			}
		} else if offset > window {
			continue
		}

		minutesFromStart := roundMinutes(offset)
		reason := "The assigned crew was changed right at the scheduled start."
		if minutesFromStart < 0 {
			reason = fmt.Sprintf("The assigned crew was changed %s before the scheduled start.",
				humanizeMinutes(minutesFromStart))
		} else if minutesFromStart > 0 {
			reason = fmt.Sprintf("The assigned crew was changed %s after the scheduled start.",
				humanizeMinutes(minutesFromStart))
		}

		drafts = append(drafts, draft{
			rule:          RuleCrewSwapNearStart,
			entityType:    EntityJob,
			entityID:      job.ID,
			disambiguator: event.EventID,
			severity:      SeverityWarning,
			headline:      "Crew changed close to start on " + jobLabel(job),
			reason:        reason,
			detectedAt:    changed,
			evidence: CrewSwapEvidence{
				AssignmentID:     event.AssignmentID,
				PreviousCrewID:   event.PreviousCrewID,
				NextCrewID:       event.NextCrewID,
				ChangedAt:        event.ChangedAt,
				MinutesFromStart: minutesFromStart,
				WindowMinutes:    ev.in.Thresholds.CrewSwapWindowMinutes,
			},
			actions: []string{
				"Confirm the incoming crew has the job brief",
				"Let the customer know who is coming",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}
