// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "fmt"

// Margin-risk trigger classifications, strongest first. The severity is
// always critical; the trigger tells the dashboard which condition fired.
const (
	marginTriggerRealtimeCritical = "realtime_critical"
	marginTriggerRealtimeWarning  = "realtime_warning"
	marginTriggerBelowCritical    = "below_critical_threshold"
	marginTriggerBelowWarning     = "below_warning_threshold"
	marginTriggerBelowTarget      = "below_target"
)

// MarginRiskEvidence explains a margin_risk signal. Money values are
// decimal strings in major units.
type MarginRiskEvidence struct {
	ProfitabilityStatus    ProfitabilityStatus `json:"profitabilityStatus,omitempty"`
	ProjectedMarginPercent *float64            `json:"projectedMarginPercent,omitempty"`
	TargetMarginPercent    *float64            `json:"targetMarginPercent,omitempty"`
	WarningPercent         float64             `json:"warningThresholdPercent"`
	CriticalPercent        float64             `json:"criticalThresholdPercent"`
	Trigger                string              `json:"trigger"`
	EstimatedRevenue       string              `json:"estimatedRevenue,omitempty"`
	EstimatedCost          string              `json:"estimatedCost,omitempty"`
	OutstandingBalance     string              `json:"outstandingBalance,omitempty"`
	Currency               string              `json:"currency,omitempty"`
}

// detectMarginRisk flags not-yet-completed jobs whose margin is in trouble
// on any of three conditions: the upstream realtime profitability
// classification says warning or critical, the projected margin computed
// from the estimates sits at or below the warning threshold, or it sits
// below the job's own target margin. Margin problems compound while work
// continues, so every variant is critical; the evidence trigger records
// which condition fired. Jobs without a financial snapshot are skipped.
func detectMarginRisk(ev *evaluation) []draft {
	var drafts []draft
	th := ev.in.Thresholds

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if jobCompleted(job) {
			continue
		}
		fin, ok := ev.in.FinancialsByJob[job.ID]
		if !ok {
			continue
		}

		var projected *float64
		if fin.EstimatedRevenueCents != nil && fin.EstimatedCostCents != nil {
			if pct, computed := marginPercent(*fin.EstimatedRevenueCents, *fin.EstimatedCostCents); computed {
				projected = &pct
			}
		}

		trigger := classifyMarginTrigger(fin, projected, th)
		if trigger == "" {
			continue
		}

		evidence := MarginRiskEvidence{
			ProfitabilityStatus:    fin.ProfitabilityStatus,
			ProjectedMarginPercent: projected,
			TargetMarginPercent:    fin.TargetMarginPercent,
			WarningPercent:         th.MarginWarningPercent,
			CriticalPercent:        th.MarginCriticalPercent,
			Trigger:                trigger,
		}
		if fin.EstimatedRevenueCents != nil {
			evidence.EstimatedRevenue = formatCents(*fin.EstimatedRevenueCents)
		}
		if fin.EstimatedCostCents != nil {
			evidence.EstimatedCost = formatCents(*fin.EstimatedCostCents)
		}
		if inv, has := ev.in.InvoiceByJob[job.ID]; has && inv.OutstandingCents > 0 {
			evidence.OutstandingBalance = formatCents(inv.OutstandingCents)
			evidence.Currency = inv.Currency
		}

		drafts = append(drafts, draft{
			rule:       RuleMarginRisk,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   SeverityCritical,
			headline:   jobLabel(job) + " margin is at risk",
			reason:     marginReason(trigger, projected, fin),
			detectedAt: ev.now,
			evidence:   evidence,
			actions: []string{
				"Review the cost breakdown",
				"Re-quote or trim scope before more cost lands",
			},
			links: ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}

// classifyMarginTrigger picks the strongest condition that holds, or ""
// when none do. Realtime classifications outrank projections: they come
// from actual costs, not estimates.
func classifyMarginTrigger(fin JobFinancials, projected *float64, th Thresholds) string {
	switch fin.ProfitabilityStatus {
	case ProfitabilityCritical:
		return marginTriggerRealtimeCritical
	case ProfitabilityWarning:
		return marginTriggerRealtimeWarning
	}
	if projected == nil {
		return ""
	}
	switch {
	case *projected <= th.MarginCriticalPercent:
		return marginTriggerBelowCritical
	case *projected <= th.MarginWarningPercent:
		return marginTriggerBelowWarning
	case fin.TargetMarginPercent != nil && *projected < *fin.TargetMarginPercent:
		return marginTriggerBelowTarget
	}
	return ""
}

func marginReason(trigger string, projected *float64, fin JobFinancials) string {
	switch trigger {
	case marginTriggerRealtimeCritical:
		return "Realtime profitability is critical."
	case marginTriggerRealtimeWarning:
		return "Realtime profitability has degraded to warning."
	case marginTriggerBelowTarget:
		return fmt.Sprintf("Projected margin %.1f%% is below the %.1f%% target for this job.",
			*projected, *fin.TargetMarginPercent)
	default:
		return fmt.Sprintf("Projected margin is down to %.1f%%.", *projected)
	}
}
