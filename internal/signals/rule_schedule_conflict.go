// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"sort"
)

// ConflictAssignment is one side of a schedule conflict inside evidence.
type ConflictAssignment struct {
	AssignmentID string `json:"assignmentId"`
	JobID        string `json:"jobId"`
	StartMinute  int    `json:"startMinute"`
	EndMinute    int    `json:"endMinute"`
}

// ScheduleConflictEvidence explains a schedule_conflict signal. First and
// Second are ordered by start minute (ties by assignment ID), matching the
// order used in the reason text.
type ScheduleConflictEvidence struct {
	Date           string             `json:"date"`
	First          ConflictAssignment `json:"first"`
	Second         ConflictAssignment `json:"second"`
	OverlapMinutes int                `json:"overlapMinutes"`
}

// detectScheduleConflict flags crews booked into overlapping time ranges
// on the same day. Assignments are grouped per crew per calendar date,
// cancelled and completed ones drop out, the rest sort by start minute
// (ID as tie-break), and every overlapping pair emits exactly one signal.
// The pair's disambiguator is built from the two assignment IDs sorted, so
// evaluating (A,B) and (B,A) can't double-emit. Assignments with no crew
// aren't a conflict for anyone.
func detectScheduleConflict(ev *evaluation) []draft {
	var drafts []draft

	crewIDs := make([]string, 0, len(ev.assignmentsByCrew))
	for crewID := range ev.assignmentsByCrew {
		crewIDs = append(crewIDs, crewID)
	}
	sort.Strings(crewIDs)

	for _, crewID := range crewIDs {
		byDate := make(map[string][]*Assignment)
		for _, a := range ev.assignmentsByCrew[crewID] {
			if a.Status == AssignmentCancelled || a.Status == AssignmentCompleted {
				continue
			}
			byDate[a.Date] = append(byDate[a.Date], a)
		}

		dates := make([]string, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for _, date := range dates {
			day := byDate[date]
			sort.Slice(day, func(i, j int) bool {
				if day[i].StartMinute != day[j].StartMinute {
					return day[i].StartMinute < day[j].StartMinute
				}
				return day[i].ID < day[j].ID
			})

			for i := 0; i < len(day); i++ {
				for j := i + 1; j < len(day); j++ {
					first, second := day[i], day[j]
					overlap := min(first.EndMinute, second.EndMinute) -
						max(first.StartMinute, second.StartMinute)
					if overlap <= 0 {
						continue
					}
					drafts = append(drafts, conflictDraft(ev, crewID, date, first, second, overlap))
				}
			}
		}
	}
	return drafts
}

func conflictDraft(ev *evaluation, crewID, date string, first, second *Assignment, overlap int) draft {
	headline := "Crew " + crewID + " is double-booked"
	links := []DeepLink{{Label: "Open crew", Href: "/crews/" + crewID}}
	if crew, ok := ev.crewsByID[crewID]; ok {
		headline = crewLabel(crew) + " is double-booked"
		links = []DeepLink{crewLink(crew)}
	}
	for _, side := range []*Assignment{first, second} {
		if job, ok := ev.jobsByID[side.JobID]; ok {
			links = append(links, jobLink(job))
		}
	}

	return draft{
		rule:          RuleScheduleConflict,
		entityType:    EntityCrew,
		entityID:      crewID,
		disambiguator: pairKey(first.ID, second.ID),
		severity:      SeverityWarning,
		headline:      headline,
		reason: fmt.Sprintf("Assignments overlap by %d minutes on %s (%s–%s and %s–%s).",
			overlap, date,
			minuteClock(first.StartMinute), minuteClock(first.EndMinute),
			minuteClock(second.StartMinute), minuteClock(second.EndMinute)),
		detectedAt: ev.now,
		evidence: ScheduleConflictEvidence{
			Date:           date,
			First:          conflictSide(first),
			Second:         conflictSide(second),
			OverlapMinutes: overlap,
		},
		actions: []string{
			"Move one assignment to another crew",
			"Shift the later assignment",
		},
		links: links,
	}
}

func conflictSide(a *Assignment) ConflictAssignment {
	return ConflictAssignment{
		AssignmentID: a.ID,
		JobID:        a.JobID,
		StartMinute:  a.StartMinute,
		EndMinute:    a.EndMinute,
	}
}

// minuteClock renders a workday minute offset as HH:MM.
func minuteClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
