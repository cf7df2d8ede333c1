// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "github.com/shopspring/decimal"

var centsPerUnit = decimal.NewFromInt(100)

// marginPercent computes the projected margin (revenue - cost) / revenue
// as a percentage, in decimal arithmetic so cent amounts never pick up
// binary float drift on their way into evidence. ok is false when revenue
// is missing or non-positive — no margin can be projected then.
func marginPercent(revenueCents, costCents int64) (float64, bool) {
	if revenueCents <= 0 {
		return 0, false
	}
	revenue := decimal.NewFromInt(revenueCents)
	cost := decimal.NewFromInt(costCents)
	pct := revenue.Sub(cost).
		Div(revenue).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	value, _ := pct.Float64()
	return value, true
}

// formatCents renders a cent amount in major units with two decimals,
// e.g. 125050 -> "1250.50". Currency symbols are the dashboard's concern.
func formatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(centsPerUnit).StringFixed(2)
}
