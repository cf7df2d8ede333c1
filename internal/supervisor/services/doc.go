// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package services adapts the application's long-running components to
// suture's Serve(ctx) contract. Each wrapper targets a narrow interface
// rather than a concrete type so the package stays import-light and the
// wrappers stay testable with handwritten fakes.
package services
