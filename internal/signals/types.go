// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"math"
	"time"
)

// CoordinateEpsilon is the threshold for considering coordinates as effectively zero.
// DETERMINISM: This provides a consistent epsilon for coordinate comparisons across
// all rules. A coordinate is considered "unknown" (sentinel value 0,0) if both
// latitude and longitude are within this epsilon of zero.
//
// Value rationale: 1e-7 degrees ≈ 1.1cm at the equator, well below GPS accuracy and
// any meaningful coordinate difference, but reliable for float comparison.
const CoordinateEpsilon = 1e-7

// IsUnknownLocation returns true if the coordinates represent an unknown location.
// The upstream API emits (0, 0) when a job site or crew has no geocoded position;
// epsilon comparison avoids direct float equality on the sentinel.
func IsUnknownLocation(lat, lng float64) bool {
	return math.Abs(lat) < CoordinateEpsilon && math.Abs(lng) < CoordinateEpsilon
}

// HasValidCoordinates returns true if the coordinates are valid (not unknown).
// This is the inverse of IsUnknownLocation for readability.
func HasValidCoordinates(lat, lng float64) bool {
	return !IsUnknownLocation(lat, lng)
}

// RuleType identifies the rule that produced a signal.
type RuleType string

const (
	// RuleScheduledUnassigned flags scheduled jobs that still have no crew.
	RuleScheduledUnassigned RuleType = "scheduled_unassigned"

	// RuleCrewSwapNearStart flags crew reassignments close to a job start.
	RuleCrewSwapNearStart RuleType = "crew_swap_near_start"

	// RuleLateRisk flags imminent or passed starts with nobody en route.
	RuleLateRisk RuleType = "late_risk"

	// RuleNoProgress flags in-progress jobs gone quiet.
	RuleNoProgress RuleType = "no_progress"

	// RuleTimeRisk flags jobs overrunning their planned hours or duration.
	RuleTimeRisk RuleType = "time_risk"

	// RuleMaterialsMissing flags planned materials with no usage logged.
	RuleMaterialsMissing RuleType = "materials_missing"

	// RuleMarginRisk flags jobs whose margin is in trouble.
	RuleMarginRisk RuleType = "margin_risk"

	// RuleCompletedUnpaid flags finished jobs with outstanding invoices.
	RuleCompletedUnpaid RuleType = "completed_unpaid"

	// RuleIdleCrewNearby flags idle capacity close to an at-risk job.
	RuleIdleCrewNearby RuleType = "idle_crew_nearby"

	// RuleCrewIdle flags crews idle past the configured threshold.
	RuleCrewIdle RuleType = "crew_idle"

	// RuleCrewEnRouteDelay flags crews still driving after the start passed.
	RuleCrewEnRouteDelay RuleType = "crew_en_route_delay"

	// RuleStaleLocation flags crews with an old or missing location fix.
	RuleStaleLocation RuleType = "stale_location"

	// RuleScheduleConflict flags overlapping same-day assignments per crew.
	RuleScheduleConflict RuleType = "schedule_conflict"
)

// Severity indicates how urgently a signal needs attention.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Weight maps a severity onto an ordinal scale for ranking. Unknown
// severities weigh zero and sink to the bottom of any sort.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// EntityType identifies the primary entity a signal is about.
type EntityType string

const (
	EntityJob    EntityType = "job"
	EntityCrew   EntityType = "crew"
	EntitySystem EntityType = "system"
)

// JobStatus is the scheduling lifecycle state of a job.
type JobStatus string

const (
	JobStatusUnassigned JobStatus = "unassigned"
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

// ProgressStatus is the on-site execution state of a job, reported
// independently of the scheduling status.
type ProgressStatus string

const (
	ProgressNotStarted   ProgressStatus = "not_started"
	ProgressInProgress   ProgressStatus = "in_progress"
	ProgressHalfComplete ProgressStatus = "half_complete"
	ProgressCompleted    ProgressStatus = "completed"
)

// ScheduleState captures the assignment posture of a scheduled job.
type ScheduleState string

const (
	ScheduleStateUnscheduled         ScheduleState = "unscheduled"
	ScheduleStateScheduledAssigned   ScheduleState = "scheduled_assigned"
	ScheduleStateScheduledUnassigned ScheduleState = "scheduled_unassigned"
)

// CrewState is the dispatch state of a crew.
type CrewState string

const (
	CrewStateIdle     CrewState = "idle"
	CrewStateEnRoute  CrewState = "en_route"
	CrewStateOnJob    CrewState = "on_job"
	CrewStateOffShift CrewState = "off_shift"
)

// AssignmentStatus is the lifecycle state of a scheduled block.
type AssignmentStatus string

const (
	AssignmentScheduled  AssignmentStatus = "scheduled"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// LocationSource records where a crew's last known position came from.
// An empty source means the crew has never reported a position at all.
type LocationSource string

const (
	LocationSourceGPS     LocationSource = "gps"
	LocationSourceJobSite LocationSource = "job_site"
	LocationSourceManual  LocationSource = "manual"
)

// ProfitabilityStatus is the upstream realtime margin classification.
type ProfitabilityStatus string

const (
	ProfitabilityHealthy  ProfitabilityStatus = "healthy"
	ProfitabilityWarning  ProfitabilityStatus = "warning"
	ProfitabilityCritical ProfitabilityStatus = "critical"
)

// Coordinates is a WGS84 position. The zero value is the upstream "no fix"
// sentinel; use HasValidCoordinates before doing geometry with it.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Known reports whether the coordinates carry a real position.
func (c Coordinates) Known() bool {
	return HasValidCoordinates(c.Lat, c.Lng)
}

// JobRisk is the precomputed risk flag supplied with each job.
type JobRisk struct {
	AtRisk bool `json:"atRisk"`
}

// Job is one job as of the snapshot instant. Timestamps are RFC 3339
// strings straight off the upstream wire; empty means absent.
type Job struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Address        string         `json:"address"`
	Coordinates    *Coordinates   `json:"coordinates,omitempty"`
	Status         JobStatus      `json:"status"`
	ProgressStatus ProgressStatus `json:"progressStatus"`
	ScheduleState  ScheduleState  `json:"scheduleState"`
	ScheduledStart string         `json:"scheduledStart,omitempty"`
	ScheduledEnd   string         `json:"scheduledEnd,omitempty"`
	CrewIDs        []string       `json:"crewIds,omitempty"`
	Risk           JobRisk        `json:"risk"`
}

// CrewLocation is a crew's last known position: explicit coordinates, a
// reference to the job site it is parked at, or nothing.
type CrewLocation struct {
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	JobID       string         `json:"jobId,omitempty"`
	Source      LocationSource `json:"source,omitempty"`
}

// Crew is one crew as of the snapshot instant.
type Crew struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Active       bool          `json:"active"`
	State        CrewState     `json:"state"`
	IdleMinutes  *int          `json:"idleMinutes,omitempty"`
	Location     *CrewLocation `json:"location,omitempty"`
	NextJobID    string        `json:"nextJobId,omitempty"`
	NextJobStart string        `json:"nextJobStart,omitempty"`
}

// Assignment is a scheduled block of time for one crew on one job.
// StartMinute/EndMinute are offsets within the workday on Date;
// ScheduledStart/ScheduledEnd are the resolved absolute timestamps.
type Assignment struct {
	ID             string           `json:"id"`
	JobID          string           `json:"jobId"`
	CrewID         string           `json:"crewId,omitempty"`
	Date           string           `json:"date"`
	StartMinute    int              `json:"startMinute"`
	EndMinute      int              `json:"endMinute"`
	Status         AssignmentStatus `json:"status"`
	ScheduledStart string           `json:"scheduledStart,omitempty"`
	ScheduledEnd   string           `json:"scheduledEnd,omitempty"`
}

// CrewSwapEvent records an assignment's crew being changed after initial
// scheduling.
type CrewSwapEvent struct {
	EventID        string `json:"eventId"`
	AssignmentID   string `json:"assignmentId"`
	JobID          string `json:"jobId"`
	PreviousCrewID string `json:"previousCrewId,omitempty"`
	NextCrewID     string `json:"nextCrewId,omitempty"`
	ChangedAt      string `json:"changedAt"`
}

// JobFinancials is the precomputed profitability snapshot for one job.
// Every field is optional: not all jobs carry estimates.
type JobFinancials struct {
	ProfitabilityStatus   ProfitabilityStatus `json:"profitabilityStatus,omitempty"`
	TargetMarginPercent   *float64            `json:"targetMarginPercent,omitempty"`
	EstimatedRevenueCents *int64              `json:"estimatedRevenueCents,omitempty"`
	EstimatedCostCents    *int64              `json:"estimatedCostCents,omitempty"`
}

// JobInvoice is the aggregated invoice position for one job.
type JobInvoice struct {
	InvoiceID        string `json:"invoiceId"`
	Status           string `json:"status"`
	TotalCents       int64  `json:"totalCents"`
	PaidCents        int64  `json:"paidCents"`
	OutstandingCents int64  `json:"outstandingCents"`
	Currency         string `json:"currency,omitempty"`
	IssuedAt         string `json:"issuedAt,omitempty"`
	DueAt            string `json:"dueAt,omitempty"`
	PaidAt           string `json:"paidAt,omitempty"`
	IsOverdue        bool   `json:"isOverdue"`
}

// Thresholds are the numeric knobs controlling every rule. All fields are
// required: the engine applies no implicit defaults, so the caller (in
// practice the config layer, which validates these tags) must supply a
// complete set.
type Thresholds struct {
	// LateRiskMinutes is the window around a job start, in either
	// direction, inside which a no-show crew makes the job late-risk.
	LateRiskMinutes int `json:"lateRiskMinutes" koanf:"late_risk_minutes" validate:"required,gt=0"`

	// IdleThresholdMinutes is how long a crew may sit idle before it is
	// flagged, and the idle floor for nearby-crew matching.
	IdleThresholdMinutes int `json:"idleThresholdMinutes" koanf:"idle_threshold_minutes" validate:"required,gt=0"`

	// StaleLocationMinutes is the maximum age of a crew location fix.
	StaleLocationMinutes int `json:"staleLocationMinutes" koanf:"stale_location_minutes" validate:"required,gt=0"`

	// RiskRadiusKm is the great-circle dispatch radius for matching idle
	// crews to at-risk jobs.
	RiskRadiusKm float64 `json:"riskRadiusKm" koanf:"risk_radius_km" validate:"required,gt=0"`

	// NoProgressMinutes is how long an in-progress job may go without any
	// recorded activity.
	NoProgressMinutes int `json:"noProgressMinutes" koanf:"no_progress_minutes" validate:"required,gt=0"`

	// NoMaterialsMinutes is the grace period after a job starts before
	// missing material usage is flagged.
	NoMaterialsMinutes int `json:"noMaterialsMinutes" koanf:"no_materials_minutes" validate:"required,gt=0"`

	// EnRouteDelayMinutes is how far past the next job's start an en-route
	// crew may run before being flagged.
	EnRouteDelayMinutes int `json:"enRouteDelayMinutes" koanf:"en_route_delay_minutes" validate:"required,gt=0"`

	// HoursOverageMultiplier is the logged-vs-planned (and elapsed-vs-
	// expected) ratio at which time risk fires.
	HoursOverageMultiplier float64 `json:"hoursOverageMultiplier" koanf:"hours_overage_multiplier" validate:"required,gt=0"`

	// TimeRiskCriticalMultiplier is the ratio at which time risk escalates
	// to critical. Never below the overage multiplier.
	TimeRiskCriticalMultiplier float64 `json:"timeRiskCriticalMultiplier" koanf:"time_risk_critical_multiplier" validate:"required,gtefield=HoursOverageMultiplier"`

	// DefaultJobDurationMinutes stands in for expected duration when a job
	// has no planned assignment minutes.
	DefaultJobDurationMinutes int `json:"defaultJobDurationMinutes" koanf:"default_job_duration_minutes" validate:"required,gt=0"`

	// MarginWarningPercent is the projected-margin floor below which
	// margin risk fires.
	MarginWarningPercent float64 `json:"marginWarningPercent" koanf:"margin_warning_percent" validate:"required,gt=0"`

	// MarginCriticalPercent classifies how badly a margin has degraded in
	// signal evidence. Never above the warning percent.
	MarginCriticalPercent float64 `json:"marginCriticalPercent" koanf:"margin_critical_percent" validate:"required,ltefield=MarginWarningPercent"`

	// UnassignedWarningDays is how close to its start an unassigned job
	// must be before escalating from info to warning.
	UnassignedWarningDays int `json:"unassignedWarningDays" koanf:"unassigned_warning_days" validate:"required,gt=0"`

	// CrewSwapWindowMinutes is the window around a job start inside which
	// a crew swap is considered disruptive.
	CrewSwapWindowMinutes int `json:"crewSwapWindowMinutes" koanf:"crew_swap_window_minutes" validate:"required,gt=0"`
}

// DefaultThresholds returns the operational tuning used when no explicit
// configuration is supplied. The engine itself never falls back to these;
// they exist for the config layer and for tests.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LateRiskMinutes:            30,
		IdleThresholdMinutes:       45,
		StaleLocationMinutes:       60,
		RiskRadiusKm:               8,
		NoProgressMinutes:          120,
		NoMaterialsMinutes:         90,
		EnRouteDelayMinutes:        20,
		HoursOverageMultiplier:     1.25,
		TimeRiskCriticalMultiplier: 1.5,
		DefaultJobDurationMinutes:  240,
		MarginWarningPercent:       15,
		MarginCriticalPercent:      5,
		UnassignedWarningDays:      2,
		CrewSwapWindowMinutes:      120,
	}
}

// Input is the complete snapshot Build evaluates. The caller is responsible
// for assembling it consistently as of one instant (Now) and for tenant
// scoping; the engine never queries storage and never sees a tenant ID.
//
// The seven per-job lookup maps are precomputed aggregates keyed by job ID,
// not raw event streams. Timestamp values are RFC 3339 strings.
type Input struct {
	Now time.Time `json:"now" validate:"required"`

	Jobs           []Job           `json:"jobs"`
	Crews          []Crew          `json:"crews"`
	Assignments    []Assignment    `json:"assignments"`
	CrewSwapEvents []CrewSwapEvent `json:"crewSwapEvents"`

	LastActivityAtByJob       map[string]string `json:"lastActivityAtByJob,omitempty"`
	LastUpdatedAtByJob        map[string]string `json:"lastUpdatedAtByJob,omitempty"`
	MaterialUsageCountByJob   map[string]int    `json:"materialUsageCountByJob,omitempty"`
	LastHoursLogAtByJob       map[string]string `json:"lastHoursLogAtByJob,omitempty"`
	LastMaterialsLogAtByJob   map[string]string `json:"lastMaterialsLogAtByJob,omitempty"`
	LoggedMinutesByJob        map[string]int    `json:"loggedMinutesByJob,omitempty"`
	PlannedMaterialCountByJob map[string]int    `json:"plannedMaterialCountByJob,omitempty"`

	FinancialsByJob map[string]JobFinancials `json:"financialsByJob,omitempty"`
	InvoiceByJob    map[string]JobInvoice    `json:"invoiceByJob,omitempty"`

	Thresholds Thresholds `json:"thresholds"`
}
