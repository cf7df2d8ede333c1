// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/fieldscope/fieldscope/internal/logging"
	"github.com/fieldscope/fieldscope/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeNoSnapshot         = "NO_SNAPSHOT"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
	ErrCodeTooManyRequests    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// writeSuccess writes the standard envelope with HTTP 200.
func writeSuccess(w http.ResponseWriter, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now().UTC()
	writeJSON(w, http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeErrorDetails(w, statusCode, code, message, nil)
}

// writeErrorDetails writes the error envelope with structured details.
func writeErrorDetails(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	writeJSON(w, statusCode, models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
