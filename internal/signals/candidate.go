// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DeepLink is a navigable reference from a signal into the surrounding
// application (job page, crew page) or out to an external tool (maps).
type DeepLink struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	External bool   `json:"external,omitempty"`
}

// Candidate is one detected operational signal. Headline/Title,
// Reason/Description, DetectedAt/CreatedAt and Evidence/Metadata are alias
// pairs kept in lockstep by finalize; dashboards consume whichever name
// they already bind to.
type Candidate struct {
	ID                 string          `json:"id"`
	Type               RuleType        `json:"type"`
	EntityType         EntityType      `json:"entityType"`
	EntityID           string          `json:"entityId"`
	Severity           Severity        `json:"severity"`
	Headline           string          `json:"headline"`
	Title              string          `json:"title"`
	Reason             string          `json:"reason"`
	Description        string          `json:"description"`
	DetectedAt         time.Time       `json:"detectedAt"`
	CreatedAt          time.Time       `json:"createdAt"`
	Evidence           any             `json:"evidence,omitempty"`
	Metadata           json.RawMessage `json:"metadata,omitempty"`
	RecommendedActions []string        `json:"recommendedActions,omitempty"`
	DeepLinks          []DeepLink      `json:"deepLinks,omitempty"`
}

// draft is what a rule emits: only the entity-specific fields. finalize
// derives everything redundant (ID, alias fields, marshaled metadata) in
// one place so no rule duplicates that logic.
type draft struct {
	rule          RuleType
	entityType    EntityType
	entityID      string
	disambiguator string
	severity      Severity
	headline      string
	reason        string
	detectedAt    time.Time
	evidence      any
	actions       []string
	links         []DeepLink
}

// finalize normalizes a draft into a full Candidate.
//
// The ID is <rule>:<entityType>:<entityId> plus an optional fourth segment
// for rules that can fire more than once per entity. DetectedAt is clamped
// to now: rules derive the instant a condition became true, and bad
// upstream data must never postdate a signal past the snapshot instant.
func finalize(d draft, now time.Time) Candidate {
	id := string(d.rule) + ":" + string(d.entityType) + ":" + d.entityID
	if d.disambiguator != "" {
		id += ":" + d.disambiguator
	}

	detected := d.detectedAt
	if detected.IsZero() || detected.After(now) {
		detected = now
	}

	var meta json.RawMessage
	if d.evidence != nil {
		if raw, err := json.Marshal(d.evidence); err == nil {
			meta = raw
		}
	}

	return Candidate{
		ID:                 id,
		Type:               d.rule,
		EntityType:         d.entityType,
		EntityID:           d.entityID,
		Severity:           d.severity,
		Headline:           d.headline,
		Title:              d.headline,
		Reason:             d.reason,
		Description:        d.reason,
		DetectedAt:         detected,
		CreatedAt:          detected,
		Evidence:           d.evidence,
		Metadata:           meta,
		RecommendedActions: d.actions,
		DeepLinks:          d.links,
	}
}

// pairKey builds an order-insensitive disambiguator from two IDs, so that
// evaluating a pair in either direction yields the same signal ID exactly
// once.
func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// sortCandidates orders signals by severity descending, then by CreatedAt
// descending (most recently detected first). The sort is stable, so full
// ties keep rule-evaluation encounter order.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Severity != candidates[j].Severity {
			return candidates[i].Severity.Weight() > candidates[j].Severity.Weight()
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
}
