// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package middleware provides the HTTP middleware applied by the chi
// router: request ID propagation, per-request logging, and Prometheus
// request metrics. Rate limiting and CORS come from go-chi packages and
// are wired directly in the router.
package middleware
