// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

// signalsQuery mirrors the API's signal listing parameters.
type signalsQuery struct {
	Severity   string `validate:"omitempty,oneof=critical warning info"`
	EntityType string `validate:"omitempty,oneof=job crew"`
	Rule       string `validate:"omitempty,min=1,max=64"`
	Limit      int    `validate:"gte=0,lte=500"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input signalsQuery
	}{
		{
			name: "all fields set",
			input: signalsQuery{
				Severity:   "critical",
				EntityType: "job",
				Rule:       "late_risk",
				Limit:      100,
			},
		},
		{
			name:  "all optional fields empty",
			input: signalsQuery{},
		},
		{
			name: "maximum limit",
			input: signalsQuery{
				Severity: "info",
				Limit:    500,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     signalsQuery
		wantField string
		wantTag   string
	}{
		{
			name:      "unknown severity",
			input:     signalsQuery{Severity: "urgent"},
			wantField: "Severity",
			wantTag:   "oneof",
		},
		{
			name:      "unknown entity type",
			input:     signalsQuery{EntityType: "vehicle"},
			wantField: "EntityType",
			wantTag:   "oneof",
		},
		{
			name:      "limit too high",
			input:     signalsQuery{Limit: 5000},
			wantField: "Limit",
			wantTag:   "lte",
		},
		{
			name:      "negative limit",
			input:     signalsQuery{Limit: -1},
			wantField: "Limit",
			wantTag:   "gte",
		},
		{
			name:      "rule name too long",
			input:     signalsQuery{Rule: strings.Repeat("x", 65)},
			wantField: "Rule",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("ValidationErrors should contain at least one error")
			}

			found := false
			for _, e := range errs {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, errs)
			}
		})
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	input := signalsQuery{Severity: "urgent"}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Message == "" {
		t.Error("Expected non-empty message")
	}

	// Should contain field name in details
	if apiErr.Details == nil {
		t.Error("Expected details to be set")
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := signalsQuery{
		Severity:   "urgent",
		EntityType: "vehicle",
		Limit:      -5,
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	// Details should contain field information
	if apiErr.Details == nil {
		t.Error("Expected details to contain field information")
	}

	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
}

// ===================================================================================================
// Threshold Validation Tests
// ===================================================================================================

type thresholdStruct struct {
	UnassignedWindowMinutes int     `validate:"gt=0"`
	CrewIdleMinutes         int     `validate:"gt=0"`
	TimeOverageMultiplier   float64 `validate:"gt=1"`
	IdleCrewRadiusKm        float64 `validate:"gt=0,lte=100"`
}

func TestThresholdValidation(t *testing.T) {
	valid := thresholdStruct{
		UnassignedWindowMinutes: 2880,
		CrewIdleMinutes:         45,
		TimeOverageMultiplier:   1.25,
		IdleCrewRadiusKm:        5,
	}

	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("ValidateStruct() returned unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		input     thresholdStruct
		wantField string
	}{
		{
			name: "zero window",
			input: thresholdStruct{
				UnassignedWindowMinutes: 0,
				CrewIdleMinutes:         45,
				TimeOverageMultiplier:   1.25,
				IdleCrewRadiusKm:        5,
			},
			wantField: "UnassignedWindowMinutes",
		},
		{
			name: "multiplier at one",
			input: thresholdStruct{
				UnassignedWindowMinutes: 2880,
				CrewIdleMinutes:         45,
				TimeOverageMultiplier:   1.0,
				IdleCrewRadiusKm:        5,
			},
			wantField: "TimeOverageMultiplier",
		},
		{
			name: "radius too large",
			input: thresholdStruct{
				UnassignedWindowMinutes: 2880,
				CrewIdleMinutes:         45,
				TimeOverageMultiplier:   1.25,
				IdleCrewRadiusKm:        500,
			},
			wantField: "IdleCrewRadiusKm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %s, got: %v", tt.wantField, err.Errors())
			}
		})
	}
}

// ===================================================================================================
// Upstream Endpoint Validation Tests
// ===================================================================================================

type upstreamStruct struct {
	BaseURL string `validate:"required,url"`
	Listen  string `validate:"omitempty,hostname_port"`
}

func TestUpstreamValidation_Valid(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		listen  string
	}{
		{"https url", "https://ops.example.com", ""},
		{"http url with port", "http://localhost:8080", "0.0.0.0:9090"},
		{"url with path", "https://api.example.com/v2", "localhost:8443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := upstreamStruct{BaseURL: tt.baseURL, Listen: tt.listen}
			err := ValidateStruct(&input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestUpstreamValidation_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		listen  string
	}{
		{"missing url", "", ""},
		{"not a url", "not a url", ""},
		{"bad listen address", "https://ops.example.com", "no-port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := upstreamStruct{BaseURL: tt.baseURL, Listen: tt.listen}
			err := ValidateStruct(&input)
			if err == nil {
				t.Errorf("ValidateStruct() should have returned error for %q / %q", tt.baseURL, tt.listen)
			}
		})
	}
}

// ===================================================================================================
// Oneof Validation Tests
// ===================================================================================================

type severityStruct struct {
	Severity string `validate:"omitempty,oneof=critical warning info"`
}

func TestOneofValidation_Valid(t *testing.T) {
	tests := []struct {
		name     string
		severity string
	}{
		{"empty", ""},
		{"critical", "critical"},
		{"warning", "warning"},
		{"info", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := severityStruct{Severity: tt.severity}
			err := ValidateStruct(&input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error for severity %q: %v", tt.severity, err)
			}
		})
	}
}

func TestOneofValidation_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		severity string
	}{
		{"unknown value", "urgent"},
		{"partial match", "criticalx"},
		{"case sensitive", "Critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := severityStruct{Severity: tt.severity}
			err := ValidateStruct(&input)
			if err == nil {
				t.Errorf("ValidateStruct() should have returned error for severity %q", tt.severity)
			}
		})
	}
}

// ===================================================================================================
// WithRequiredStructEnabled Tests
// ===================================================================================================

type nestedStruct struct {
	Inner innerStruct `validate:"required"`
}

type innerStruct struct {
	Value string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	// Valid nested struct
	valid := nestedStruct{
		Inner: innerStruct{Value: "test"},
	}

	err := ValidateStruct(&valid)
	if err != nil {
		t.Errorf("ValidateStruct() returned unexpected error for valid nested struct: %v", err)
	}

	// Invalid - missing inner value
	invalid := nestedStruct{
		Inner: innerStruct{Value: ""},
	}

	err = ValidateStruct(&invalid)
	if err == nil {
		t.Error("ValidateStruct() should have returned error for invalid nested struct")
	}
}

// ===================================================================================================
// Latitude/Longitude Validation Tests
// ===================================================================================================

type siteCoordinates struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

func TestCoordinateValidation_Valid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"origin", 0, 0},
		{"new york", 40.7128, -74.0060},
		{"sydney", -33.8688, 151.2093},
		{"max lat", 90, 0},
		{"min lat", -90, 0},
		{"max lng", 0, 180},
		{"min lng", 0, -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := siteCoordinates{Lat: tt.lat, Lng: tt.lng}
			err := ValidateStruct(&input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error for lat=%f, lng=%f: %v", tt.lat, tt.lng, err)
			}
		})
	}
}

func TestCoordinateValidation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"lat too high", 91, 0},
		{"lat too low", -91, 0},
		{"lng too high", 0, 181},
		{"lng too low", 0, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := siteCoordinates{Lat: tt.lat, Lng: tt.lng}
			err := ValidateStruct(&input)
			if err == nil {
				t.Errorf("ValidateStruct() should have returned error for lat=%f, lng=%f", tt.lat, tt.lng)
			}
		})
	}
}

// ===================================================================================================
// Error Message Translation Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	input := signalsQuery{
		Severity: "urgent",
		Limit:    5000,
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	// Error message should be human-readable
	msg := err.Error()
	if msg == "" {
		t.Error("Error message should not be empty")
	}

	// Should contain field names
	if !strings.Contains(msg, "Severity") || !strings.Contains(msg, "Limit") {
		t.Errorf("Error message should reference failed fields: %s", msg)
	}

	// Tag-specific phrasing
	if !strings.Contains(msg, "must be one of") {
		t.Errorf("Expected oneof phrasing in message: %s", msg)
	}
	if !strings.Contains(msg, "less than or equal to 500") {
		t.Errorf("Expected lte phrasing in message: %s", msg)
	}
}
