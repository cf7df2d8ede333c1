// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// EnRouteDelayEvidence explains a crew_en_route_delay signal.
type EnRouteDelayEvidence struct {
	NextJobID        string `json:"nextJobId"`
	NextJobStart     string `json:"nextJobStart"`
	MinutesLate      int    `json:"minutesLate"`
	ThresholdMinutes int    `json:"thresholdMinutes"`
}

// detectEnRouteDelay flags active crews still marked en_route after their
// next job's scheduled start has passed by at least the delay threshold.
// Skips crews with no next job or an unparseable start.
func detectEnRouteDelay(ev *evaluation) []draft {
	var drafts []draft
	window := minutesDuration(ev.in.Thresholds.EnRouteDelayMinutes)

	for i := range ev.in.Crews {
		crew := &ev.in.Crews[i]
		if !crew.Active || crew.State != CrewStateEnRoute || crew.NextJobID == "" {
			continue
		}
		start, ok := ev.parseTime(crew.NextJobStart)
		if !ok {
			continue
		}
		late := ev.now.Sub(start)
		if late < window {
			continue
		}

		links := []DeepLink{crewLink(crew)}
		if job, found := ev.jobsByID[crew.NextJobID]; found {
			links = append(links, jobLink(job))
		}

		drafts = append(drafts, draft{
			rule:       RuleCrewEnRouteDelay,
			entityType: EntityCrew,
			entityID:   crew.ID,
			severity:   SeverityWarning,
			headline:   crewLabel(crew) + " is overdue at the next job",
			reason: fmt.Sprintf("Still en route %s after the next job's start.",
				humanizeMinutes(roundMinutes(late))),
			detectedAt: start.Add(window),
			evidence: EnRouteDelayEvidence{
				NextJobID:        crew.NextJobID,
				NextJobStart:     crew.NextJobStart,
				MinutesLate:      roundMinutes(late),
				ThresholdMinutes: ev.in.Thresholds.EnRouteDelayMinutes,
			},
			actions: []string{
				"Call the crew for an ETA",
				"Notify the customer of the delay",
			},
			links: links,
		})
	}
	return drafts
}
