// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"time"
)

// ScheduledUnassignedEvidence explains a scheduled_unassigned signal.
// MinutesToStart is negative once the start has passed.
type ScheduledUnassignedEvidence struct {
	ScheduledStart    string `json:"scheduledStart"`
	MinutesToStart    int    `json:"minutesToStart"`
	WarningWindowDays int    `json:"warningWindowDays"`
}

// detectScheduledUnassigned flags jobs sitting on the schedule with no
// crew. Severity escalates as the start approaches: info while the start
// is comfortably out, warning once it is inside the configured day window,
// critical once it has passed. Jobs whose start does not parse are skipped
// — without a start there is nothing to escalate against.
func detectScheduledUnassigned(ev *evaluation) []draft {
	var drafts []draft
	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if job.ScheduleState != ScheduleStateScheduledUnassigned || jobCompleted(job) {
			continue
		}
		start, ok := ev.parseTime(job.ScheduledStart)
		if !ok {
			continue
		}

		warningWindow := time.Duration(ev.in.Thresholds.UnassignedWarningDays) * 24 * time.Hour
		minutesToStart := ev.minutesUntil(start)

		severity := SeverityInfo
		detected := ev.now
		reason := fmt.Sprintf("%s is on the schedule with no crew assigned.", jobLabel(job))
		switch {
		case !start.After(ev.now):
			severity = SeverityCritical
			detected = start
			reason = fmt.Sprintf("The scheduled start passed %s ago and no crew is assigned.",
				humanizeMinutes(minutesToStart))
		case start.Sub(ev.now) <= warningWindow:
			severity = SeverityWarning
			detected = start.Add(-warningWindow)
			reason = fmt.Sprintf("The job starts in %s and no crew is assigned yet.",
				humanizeMinutes(minutesToStart))
		}

		drafts = append(drafts, draft{
			rule:       RuleScheduledUnassigned,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   severity,
			headline:   jobLabel(job) + " has no crew assigned",
			reason:     reason,
			detectedAt: detected,
			evidence: ScheduledUnassignedEvidence{
				ScheduledStart:    job.ScheduledStart,
				MinutesToStart:    minutesToStart,
				WarningWindowDays: ev.in.Thresholds.UnassignedWarningDays,
			},
			actions: []string{
				"Assign an available crew",
				"Reschedule the start if no crew can cover it",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}
