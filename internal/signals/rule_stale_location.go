// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"time"
)

// StaleLocationEvidence explains a stale_location signal. NoSource marks
// the variant where the crew has never reported a position at all; the fix
// fields are populated only for the aged variant.
type StaleLocationEvidence struct {
	Source           LocationSource `json:"source,omitempty"`
	LastFixAt        string         `json:"lastFixAt,omitempty"`
	MinutesSinceFix  int            `json:"minutesSinceFix,omitempty"`
	ThresholdMinutes int            `json:"thresholdMinutes"`
	NoSource         bool           `json:"noSource"`
}

// detectStaleLocation flags active, on-shift crews whose whereabouts can't
// be trusted. Two variants share the rule: a crew with no location source
// at all fires a warning immediately, and a crew whose last fix — proxied
// by its most recent finished assignment end, since fixes carry no
// timestamp of their own — is older than the threshold fires warning,
// escalating to critical at twice the threshold. "Never reported" and
// "reported long ago" are deliberately one rule; evidence.noSource is the
// only distinction.
func detectStaleLocation(ev *evaluation) []draft {
	var drafts []draft
	th := ev.in.Thresholds
	threshold := minutesDuration(th.StaleLocationMinutes)

	for i := range ev.in.Crews {
		crew := &ev.in.Crews[i]
		if !crew.Active || crew.State == CrewStateOffShift {
			continue
		}

		if !hasLocationSource(crew) {
			drafts = append(drafts, draft{
				rule:       RuleStaleLocation,
				entityType: EntityCrew,
				entityID:   crew.ID,
				severity:   SeverityWarning,
				headline:   crewLabel(crew) + " has no known location",
				reason:     "The crew has never reported a location from any source.",
				detectedAt: ev.now,
				evidence: StaleLocationEvidence{
					ThresholdMinutes: th.StaleLocationMinutes,
					NoSource:         true,
				},
				actions: staleLocationActions(),
				links:   []DeepLink{crewLink(crew)},
			})
			continue
		}

		lastFix, raw, ok := ev.lastLocationFix(crew)
		if !ok {
			continue
		}
		age := ev.now.Sub(lastFix)
		if age < threshold {
			continue
		}

		severity := SeverityWarning
		if age >= 2*threshold {
			severity = SeverityCritical
		}

		drafts = append(drafts, draft{
			rule:       RuleStaleLocation,
			entityType: EntityCrew,
			entityID:   crew.ID,
			severity:   severity,
			headline:   crewLabel(crew) + " location is stale",
			reason: fmt.Sprintf("Last position fix was %s ago.",
				humanizeMinutes(roundMinutes(age))),
			detectedAt: lastFix.Add(threshold),
			evidence: StaleLocationEvidence{
				Source:           crew.Location.Source,
				LastFixAt:        raw,
				MinutesSinceFix:  roundMinutes(age),
				ThresholdMinutes: th.StaleLocationMinutes,
				NoSource:         false,
			},
			actions: staleLocationActions(),
			links:   []DeepLink{crewLink(crew)},
		})
	}
	return drafts
}

// lastLocationFix finds the crew's most recent assignment end that has
// already passed — the proxy for when the crew's position was last
// trustworthy. ok is false when the crew has no finished assignment to
// anchor on, in which case the rule can't age the fix and skips.
func (ev *evaluation) lastLocationFix(crew *Crew) (time.Time, string, bool) {
	var (
		best    time.Time
		bestRaw string
		found   bool
	)
	for _, a := range ev.assignmentsByCrew[crew.ID] {
		end, ok := ev.parseTime(a.ScheduledEnd)
		if !ok || end.After(ev.now) {
			continue
		}
		if !found || end.After(best) {
			best, bestRaw, found = end, a.ScheduledEnd, true
		}
	}
	return best, bestRaw, found
}

func staleLocationActions() []string {
	return []string{
		"Ping the crew for a location update",
		"Check the crew's tracking device",
	}
}
