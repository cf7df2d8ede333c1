// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package models

import (
	"fmt"
	"time"

	"github.com/fieldscope/fieldscope/internal/signals"
)

// OperationsSnapshot is the point-in-time export served by the operations
// platform's snapshot endpoint (GET /api/v1/operations/snapshot). It carries
// everything the rule engine needs for one evaluation pass: the scheduling
// entities plus the per-job activity and financial aggregates.
//
// TakenAt is the capture timestamp on the platform side and becomes the
// evaluation clock, so repeated evaluations of the same snapshot are
// reproducible regardless of when they run.
type OperationsSnapshot struct {
	TenantID string `json:"tenantId"`
	TakenAt  string `json:"takenAt"`

	Jobs           []signals.Job           `json:"jobs"`
	Crews          []signals.Crew          `json:"crews"`
	Assignments    []signals.Assignment    `json:"assignments"`
	CrewSwapEvents []signals.CrewSwapEvent `json:"crewSwapEvents"`

	LastActivityAtByJob       map[string]string `json:"lastActivityAtByJob,omitempty"`
	LastUpdatedAtByJob        map[string]string `json:"lastUpdatedAtByJob,omitempty"`
	MaterialUsageCountByJob   map[string]int    `json:"materialUsageCountByJob,omitempty"`
	LastHoursLogAtByJob       map[string]string `json:"lastHoursLogAtByJob,omitempty"`
	LastMaterialsLogAtByJob   map[string]string `json:"lastMaterialsLogAtByJob,omitempty"`
	LoggedMinutesByJob        map[string]int    `json:"loggedMinutesByJob,omitempty"`
	PlannedMaterialCountByJob map[string]int    `json:"plannedMaterialCountByJob,omitempty"`

	FinancialsByJob map[string]signals.JobFinancials `json:"financialsByJob,omitempty"`
	InvoiceByJob    map[string]signals.JobInvoice    `json:"invoiceByJob,omitempty"`
}

// ToInput converts the snapshot into an evaluation input, pinning the
// evaluation clock to the snapshot's capture time and attaching the
// thresholds the evaluation should run with.
//
// A snapshot whose TakenAt does not parse is rejected rather than silently
// evaluated against the wrong clock; the caller keeps serving the previous
// snapshot.
func (s *OperationsSnapshot) ToInput(thresholds signals.Thresholds) (*signals.Input, error) {
	takenAt, err := time.Parse(time.RFC3339Nano, s.TakenAt)
	if err != nil {
		return nil, fmt.Errorf("snapshot takenAt %q: %w", s.TakenAt, err)
	}

	return &signals.Input{
		Now: takenAt.UTC(),

		Jobs:           s.Jobs,
		Crews:          s.Crews,
		Assignments:    s.Assignments,
		CrewSwapEvents: s.CrewSwapEvents,

		LastActivityAtByJob:       s.LastActivityAtByJob,
		LastUpdatedAtByJob:        s.LastUpdatedAtByJob,
		MaterialUsageCountByJob:   s.MaterialUsageCountByJob,
		LastHoursLogAtByJob:       s.LastHoursLogAtByJob,
		LastMaterialsLogAtByJob:   s.LastMaterialsLogAtByJob,
		LoggedMinutesByJob:        s.LoggedMinutesByJob,
		PlannedMaterialCountByJob: s.PlannedMaterialCountByJob,

		FinancialsByJob: s.FinancialsByJob,
		InvoiceByJob:    s.InvoiceByJob,

		Thresholds: thresholds,
	}, nil
}

// ParseTakenAt returns the snapshot capture time without building an input.
// Used for staleness metrics and the readiness probe.
func (s *OperationsSnapshot) ParseTakenAt() (time.Time, error) {
	takenAt, err := time.Parse(time.RFC3339Nano, s.TakenAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot takenAt %q: %w", s.TakenAt, err)
	}
	return takenAt.UTC(), nil
}
