// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"time"
)

// NoProgressEvidence explains a no_progress signal. LastSeenSource names
// which activity stream produced the freshest timestamp.
type NoProgressEvidence struct {
	LastSeenAt           string `json:"lastSeenAt"`
	LastSeenSource       string `json:"lastSeenSource"`
	MinutesSinceLastSeen int    `json:"minutesSinceLastSeen"`
	ThresholdMinutes     int    `json:"thresholdMinutes"`
}

// detectNoProgress flags in-progress jobs that have gone quiet on every
// channel at once: no CRM activity, no job update, no hours log, no
// materials log. The freshest of those four timestamps is the job's
// last-seen moment, falling back to the scheduled start for jobs that
// never produced any activity. Jobs with no usable timestamp at all are
// skipped.
func detectNoProgress(ev *evaluation) []draft {
	var drafts []draft
	threshold := minutesDuration(ev.in.Thresholds.NoProgressMinutes)

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if !jobInProgress(job) || jobCompleted(job) {
			continue
		}

		lastSeen, raw, source, ok := ev.lastSeen(job)
		if !ok {
			continue
		}
		if ev.now.Sub(lastSeen) <= threshold {
			continue
		}

		minutesSince := ev.minutesSince(lastSeen)
		drafts = append(drafts, draft{
			rule:       RuleNoProgress,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   SeverityWarning,
			headline:   jobLabel(job) + " has stalled",
			reason: fmt.Sprintf("No activity, updates, hours or materials logged for %s.",
				humanizeMinutes(minutesSince)),
			detectedAt: lastSeen.Add(threshold),
			evidence: NoProgressEvidence{
				LastSeenAt:           raw,
				LastSeenSource:       source,
				MinutesSinceLastSeen: minutesSince,
				ThresholdMinutes:     ev.in.Thresholds.NoProgressMinutes,
			},
			actions: []string{
				"Check in with the crew on site",
				"Review the latest job notes",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}

// lastSeen picks the freshest activity timestamp for a job across the four
// aggregate streams, in a fixed probe order so ties resolve the same way
// every run. Falls back to the scheduled start when nothing was ever
// logged.
func (ev *evaluation) lastSeen(job *Job) (time.Time, string, string, bool) {
	probes := []struct {
		source string
		value  string
	}{
		{"activity", ev.in.LastActivityAtByJob[job.ID]},
		{"job_update", ev.in.LastUpdatedAtByJob[job.ID]},
		{"hours_log", ev.in.LastHoursLogAtByJob[job.ID]},
		{"materials_log", ev.in.LastMaterialsLogAtByJob[job.ID]},
	}

	var (
		best       time.Time
		bestRaw    string
		bestSource string
		found      bool
	)
	for _, probe := range probes {
		t, ok := ev.parseTime(probe.value)
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best, bestRaw, bestSource, found = t, probe.value, probe.source, true
		}
	}
	if found {
		return best, bestRaw, bestSource, true
	}

	start, ok := ev.parseTime(job.ScheduledStart)
	if !ok {
		return time.Time{}, "", "", false
	}
	return start, job.ScheduledStart, "scheduled_start", true
}
