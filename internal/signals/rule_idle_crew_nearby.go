// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"sort"
)

// maxNearbyMatches caps how many candidate crews one signal lists.
const maxNearbyMatches = 3

// NearbyCrewMatch is one idle crew within dispatch range, as it appears in
// evidence.
type NearbyCrewMatch struct {
	CrewID      string  `json:"crewId"`
	CrewName    string  `json:"crewName,omitempty"`
	DistanceKm  float64 `json:"distanceKm"`
	IdleMinutes int     `json:"idleMinutes"`
}

// IdleCrewNearbyEvidence explains an idle_crew_nearby signal. Matches are
// the nearest qualifying crews, closest first, at most three.
type IdleCrewNearbyEvidence struct {
	RadiusKm float64           `json:"radiusKm"`
	Matches  []NearbyCrewMatch `json:"matches"`
}

// detectIdleCrewNearby is the dispatch-opportunity rule: for each job
// already flagged at risk upstream, it looks for active crews that have
// been idle at least the idle threshold and sit within the dispatch radius
// (great-circle). Purely informational — it suggests capacity, it doesn't
// assert a problem. Jobs without coordinates and crews whose position
// can't be resolved are silently out of scope.
func detectIdleCrewNearby(ev *evaluation) []draft {
	var drafts []draft
	th := ev.in.Thresholds

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if !job.Risk.AtRisk || job.Coordinates == nil || !job.Coordinates.Known() {
			continue
		}

		var matches []NearbyCrewMatch
		for j := range ev.in.Crews {
			crew := &ev.in.Crews[j]
			if !crew.Active || crew.State != CrewStateIdle || crew.IdleMinutes == nil {
				continue
			}
			if *crew.IdleMinutes < th.IdleThresholdMinutes {
				continue
			}
			position, ok := ev.crewCoordinates(crew)
			if !ok {
				continue
			}
			distance := haversineDistance(position, *job.Coordinates)
			if distance > th.RiskRadiusKm {
				continue
			}
			matches = append(matches, NearbyCrewMatch{
				CrewID:      crew.ID,
				CrewName:    crew.Name,
				DistanceKm:  roundTo2Decimals(distance),
				IdleMinutes: *crew.IdleMinutes,
			})
		}
		if len(matches) == 0 {
			continue
		}

		sort.Slice(matches, func(a, b int) bool {
			if matches[a].DistanceKm != matches[b].DistanceKm {
				return matches[a].DistanceKm < matches[b].DistanceKm
			}
			return matches[a].CrewID < matches[b].CrewID
		})
		if len(matches) > maxNearbyMatches {
			matches = matches[:maxNearbyMatches]
		}

		nearest := ev.crewsByID[matches[0].CrewID]
		drafts = append(drafts, draft{
			rule:       RuleIdleCrewNearby,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   SeverityInfo,
			headline:   "Idle crew available near " + jobLabel(job),
			reason: fmt.Sprintf("%d idle crew(s) within %.1f km of this at-risk job; nearest is %.1f km away.",
				len(matches), th.RiskRadiusKm, matches[0].DistanceKm),
			detectedAt: ev.now,
			evidence: IdleCrewNearbyEvidence{
				RadiusKm: th.RiskRadiusKm,
				Matches:  matches,
			},
			actions: []string{
				"Offer the job to the nearest idle crew",
				"Rebalance today's board",
			},
			links: ev.jobDeepLinks(job, nearest),
		})
	}
	return drafts
}
