// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"time"
)

// Time-risk trigger names, in the fixed order they are evaluated.
const (
	timeRiskTriggerLogged  = "logged_hours"
	timeRiskTriggerElapsed = "elapsed_time"
)

// TimeRiskEvidence explains a time_risk signal. Ratios are present only
// for the dimensions that could be computed; Triggers lists which of them
// actually tripped the rule.
type TimeRiskEvidence struct {
	LoggedMinutes      int      `json:"loggedMinutes"`
	PlannedMinutes     int      `json:"plannedMinutes"`
	ExpectedMinutes    int      `json:"expectedMinutes"`
	LoggedRatio        float64  `json:"loggedRatio,omitempty"`
	ElapsedMinutes     int      `json:"elapsedMinutes,omitempty"`
	ElapsedRatio       float64  `json:"elapsedRatio,omitempty"`
	OverageMultiplier  float64  `json:"overageMultiplier"`
	CriticalMultiplier float64  `json:"criticalMultiplier"`
	Triggers           []string `json:"triggers"`
}

// detectTimeRisk flags in-progress jobs that are overrunning the plan on
// either axis: hours actually logged against planned assignment minutes,
// or wall-clock time since the scheduled start against the expected
// duration. Planned minutes fall back to the configured default job
// duration when a job has no assignment spans. Either ratio at or past the
// overage multiplier fires; either at or past the critical multiplier
// escalates.
//
// DetectedAt is the earliest moment a triggering ratio crossed its line:
// the last hours log for the logged trigger, start + expected × multiplier
// for the elapsed trigger.
func detectTimeRisk(ev *evaluation) []draft {
	var drafts []draft
	th := ev.in.Thresholds

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if !jobInProgress(job) || jobCompleted(job) {
			continue
		}

		planned := plannedAssignmentMinutes(ev.assignmentsByJob[job.ID])
		expected := planned
		if expected <= 0 {
			expected = th.DefaultJobDurationMinutes
		}
		if expected <= 0 {
			continue
		}

		logged := ev.in.LoggedMinutesByJob[job.ID]
		evidence := TimeRiskEvidence{
			LoggedMinutes:      logged,
			PlannedMinutes:     planned,
			ExpectedMinutes:    expected,
			OverageMultiplier:  th.HoursOverageMultiplier,
			CriticalMultiplier: th.TimeRiskCriticalMultiplier,
		}

		var (
			triggers  []string
			moments   []time.Time
			worst     float64
			loggedRat float64
			elapsed   float64
		)

		if logged > 0 {
			loggedRat = float64(logged) / float64(expected)
			evidence.LoggedRatio = roundTo2Decimals(loggedRat)
			if loggedRat >= th.HoursOverageMultiplier {
				triggers = append(triggers, timeRiskTriggerLogged)
				if at, ok := ev.parseTime(ev.in.LastHoursLogAtByJob[job.ID]); ok {
					moments = append(moments, at)
				} else {
					moments = append(moments, ev.now)
				}
				if loggedRat > worst {
					worst = loggedRat
				}
			}
		}

		if start, ok := ev.parseTime(job.ScheduledStart); ok && ev.now.After(start) {
			elapsed = ev.now.Sub(start).Minutes()
			ratio := elapsed / float64(expected)
			evidence.ElapsedMinutes = roundMinutes(ev.now.Sub(start))
			evidence.ElapsedRatio = roundTo2Decimals(ratio)
			if ratio >= th.HoursOverageMultiplier {
				triggers = append(triggers, timeRiskTriggerElapsed)
				crossing := start.Add(time.Duration(float64(expected)*th.HoursOverageMultiplier) * time.Minute)
				moments = append(moments, crossing)
				if ratio > worst {
					worst = ratio
				}
			}
		}

		if len(triggers) == 0 {
			continue
		}
		evidence.Triggers = triggers

		severity := SeverityWarning
		if worst >= th.TimeRiskCriticalMultiplier {
			severity = SeverityCritical
		}

		detected := moments[0]
		for _, m := range moments[1:] {
			if m.Before(detected) {
				detected = m
			}
		}

		var reason string
		if triggers[0] == timeRiskTriggerLogged {
			reason = fmt.Sprintf("Logged time is at %.0f%% of the planned %s.",
				loggedRat*100, humanizeMinutes(expected))
		} else {
			reason = fmt.Sprintf("Running for %s against an expected %s.",
				humanizeMinutes(int(elapsed)), humanizeMinutes(expected))
		}

		drafts = append(drafts, draft{
			rule:       RuleTimeRisk,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   severity,
			headline:   jobLabel(job) + " is overrunning its plan",
			reason:     reason,
			detectedAt: detected,
			evidence:   evidence,
			actions: []string{
				"Review logged hours against the estimate",
				"Re-quote the remaining work before costs sink the job",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}

// plannedAssignmentMinutes sums the workday spans of a job's non-cancelled
// assignments. Inverted or zero-width spans contribute nothing.
func plannedAssignmentMinutes(assignments []*Assignment) int {
	total := 0
	for _, a := range assignments {
		if a.Status == AssignmentCancelled {
			continue
		}
		if span := a.EndMinute - a.StartMinute; span > 0 {
			total += span
		}
	}
	return total
}
