// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package middleware

import (
	"net/http"
	"time"

	"github.com/fieldscope/fieldscope/internal/logging"
)

// SlowRequestThreshold is the latency above which a completed request is
// logged at warn level instead of debug.
const SlowRequestThreshold = time.Second

// RequestLogger logs one line per completed request with method, route,
// status, and duration. Request and correlation IDs set by RequestID are
// picked up from the context automatically.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapper := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		event := logging.Ctx(r.Context()).Debug()
		if duration > SlowRequestThreshold {
			event = logging.Ctx(r.Context()).Warn()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("Request completed")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
