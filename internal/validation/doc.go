// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses, and is
// shared by the HTTP request decoding path and configuration loading.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Built-in validator support (oneof, gte/lte, url, hostname_port, etc.)
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type SignalsQuery struct {
//	    Severity   string `validate:"omitempty,oneof=critical warning info"`
//	    EntityType string `validate:"omitempty,oneof=job crew"`
//	    Limit      int    `validate:"gte=0,lte=500"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    q := parseSignalsQuery(r)
//
//	    if verr := validation.ValidateStruct(&q); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - url: Valid URL format
//   - hostname_port: Valid host:port address
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - gt=n: Greater than n
//   - lt=n: Less than n
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	type ValidationError struct {
//	    Field()   string      // Struct field name
//	    Tag()     string      // Validation tag that failed
//	    Param()   string      // Tag parameter (e.g., "500" for lte=500)
//	    Value()   interface{} // Actual value that failed
//	    Error()   string      // Human-readable message
//	}
//
// RequestValidationError aggregates multiple field errors:
//
//	type RequestValidationError struct {
//	    Errors() []ValidationError
//	    Error()  string           // Combined message
//	    ToAPIError() *APIError    // Convert to API error format
//	}
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Severity must be one of: critical warning info",
//	    "details": {"field": "Severity", "tag": "oneof", "value": "urgent"}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Severity: must be one of: critical warning info; Limit: must be less than or equal to 500",
//	    "details": {
//	        "fields": [
//	            {"field": "Severity", "tag": "oneof", "message": "..."},
//	            {"field": "Limit", "tag": "lte", "message": "..."}
//	        ]
//	    }
//	}
//
// # Struct Tag Examples
//
// API request validation:
//
//	type PreviewRequest struct {
//	    Thresholds *signals.Thresholds `validate:"omitempty"`
//	    Limit      int                 `validate:"gte=0,lte=500"`
//	}
//
// Threshold configuration:
//
//	type Thresholds struct {
//	    UnassignedWindowMinutes int `validate:"gt=0"`
//	    CrewIdleMinutes         int `validate:"gt=0"`
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - internal/config: Configuration structs validated at startup
//   - github.com/go-playground/validator/v10: Underlying library
package validation
