// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"fmt"
	"strings"
)

// CompletedUnpaidEvidence explains a completed_unpaid signal.
type CompletedUnpaidEvidence struct {
	InvoiceID        string `json:"invoiceId"`
	InvoiceStatus    string `json:"invoiceStatus"`
	OutstandingCents int64  `json:"outstandingCents"`
	Outstanding      string `json:"outstanding"`
	Currency         string `json:"currency,omitempty"`
	Overdue          bool   `json:"overdue"`
	DueAt            string `json:"dueAt,omitempty"`
}

// detectCompletedUnpaid flags completed jobs whose invoice still carries a
// positive outstanding balance. Draft and void invoices don't count — a
// draft was never sent and a void was deliberately cancelled. Overdue
// balances are critical; merely unpaid ones are a warning.
func detectCompletedUnpaid(ev *evaluation) []draft {
	var drafts []draft

	for i := range ev.in.Jobs {
		job := &ev.in.Jobs[i]
		if !jobCompleted(job) {
			continue
		}
		inv, ok := ev.in.InvoiceByJob[job.ID]
		if !ok || inv.OutstandingCents <= 0 {
			continue
		}
		switch strings.ToLower(inv.Status) {
		case "draft", "void":
			continue
		}

		severity := SeverityWarning
		detected := ev.now
		reason := fmt.Sprintf("The job is complete with %s still outstanding.",
			formatCents(inv.OutstandingCents))
		if inv.IsOverdue {
			severity = SeverityCritical
			reason = fmt.Sprintf("The job is complete and %s is overdue.",
				formatCents(inv.OutstandingCents))
			if due, parsed := ev.parseTime(inv.DueAt); parsed {
				detected = due
			}
		} else if issued, parsed := ev.parseTime(inv.IssuedAt); parsed {
			detected = issued
		}

		drafts = append(drafts, draft{
			rule:       RuleCompletedUnpaid,
			entityType: EntityJob,
			entityID:   job.ID,
			severity:   severity,
			headline:   jobLabel(job) + " is finished but unpaid",
			reason:     reason,
			detectedAt: detected,
			evidence: CompletedUnpaidEvidence{
				InvoiceID:        inv.InvoiceID,
				InvoiceStatus:    inv.Status,
				OutstandingCents: inv.OutstandingCents,
				Outstanding:      formatCents(inv.OutstandingCents),
				Currency:         inv.Currency,
				Overdue:          inv.IsOverdue,
				DueAt:            inv.DueAt,
			},
			actions: completedUnpaidActions(inv.IsOverdue),
			links:   ev.jobDeepLinks(job, nil),
		})
	}
	return drafts
}

func completedUnpaidActions(overdue bool) []string {
	if overdue {
		return []string{
			"Send a payment reminder",
			"Escalate per the collections policy",
		}
	}
	return []string{
		"Confirm the invoice reached the customer",
		"Schedule a payment follow-up",
	}
}
