// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// MaterialsMissingEvidence explains a materials_missing signal.
type MaterialsMissingEvidence struct {
	PlannedCount      int `json:"plannedCount"`
	UsedCount         int `json:"usedCount"`
	MinutesSinceStart int `json:"minutesSinceStart"`
	GraceMinutes      int `json:"graceMinutes"`
}

// detectMaterialsMissing flags in-progress jobs that planned material
// allocations but have logged zero usage once the grace window after the
// scheduled start has run out. The grace window exists because crews log
// materials in batches; a job ten minutes in with nothing logged is
// normal, a job three hours in is not. Jobs without a parseable start are
// skipped — the window can't be anchored.
func detectMaterialsMissing(ev *evaluation) []draft {
	var drafts []draft
	grace := minutesDuration(ev.in.Thresholds.NoMaterialsMinutes)

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if !jobInProgress(job) || jobCompleted(job) {
			continue
		}
		planned := ev.in.PlannedMaterialCountByJob[job.ID]
		if planned <= 0 || ev.in.MaterialUsageCountByJob[job.ID] != 0 {
			continue
		}
		start, ok := ev.parseTime(job.ScheduledStart)
		if !ok {
			continue
		}
		sinceStart := ev.now.Sub(start)
		if sinceStart < grace {
			continue
		}

		drafts = append(drafts, draft{
			rule:       RuleMaterialsMissing,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   SeverityWarning,
			headline:   "No materials logged on " + jobLabel(job),
			reason: fmt.Sprintf("%d planned materials and nothing logged %s into the job.",
				planned, humanizeMinutes(roundMinutes(sinceStart))),
			detectedAt: start.Add(grace),
			evidence: MaterialsMissingEvidence{
				PlannedCount:      planned,
				UsedCount:         0,
				MinutesSinceStart: roundMinutes(sinceStart),
				GraceMinutes:      ev.in.Thresholds.NoMaterialsMinutes,
			},
			actions: []string{
				"Confirm the materials were picked up",
				"Remind the crew to log usage as they go",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}
