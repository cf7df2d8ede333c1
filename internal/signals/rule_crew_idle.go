// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// CrewIdleEvidence explains a crew_idle signal.
type CrewIdleEvidence struct {
	IdleMinutes      int `json:"idleMinutes"`
	ThresholdMinutes int `json:"thresholdMinutes"`
}

// detectCrewIdle flags active crews idle at or past the threshold. Exactly
// at the threshold is info — that's paid time already burnt, worth a look;
// from twice the threshold it becomes a warning. Crews that don't report
// idle time (nil IdleMinutes) are skipped.
func detectCrewIdle(ev *evaluation) []draft {
	var drafts []draft
	threshold := ev.in.Thresholds.IdleThresholdMinutes

	for i := range ev.in.Crews {
		crew := &ev.in.Crews[i]
		if !crew.Active || crew.State != CrewStateIdle || crew.IdleMinutes == nil {
			continue
		}
		idle := *crew.IdleMinutes
		if idle < threshold {
			continue
		}

		severity := SeverityInfo
		if idle >= 2*threshold {
			severity = SeverityWarning
		}

		drafts = append(drafts, draft{
			rule:       RuleCrewIdle,
			entityType: EntityCrew,
			entityID:   crew.ID,
			severity:   severity,
			headline:   crewLabel(crew) + " has been idle too long",
			reason: fmt.Sprintf("Idle for %s against a %s threshold.",
				humanizeMinutes(idle), humanizeMinutes(threshold)),
			detectedAt: ev.now.Add(-minutesDuration(idle - threshold)),
			evidence: CrewIdleEvidence{
				IdleMinutes:      idle,
				ThresholdMinutes: threshold,
			},
			actions: []string{
				"Assign the crew to a nearby job",
				"Confirm the crew is still on shift",
			},
			links: []DeepLink{crewLink(crew)},
		})
	}
	return drafts
}
