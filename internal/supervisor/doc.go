// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

// Package supervisor builds the suture supervision tree that runs the
// long-lived parts of the service: the background snapshot refresher and
// the HTTP server.
//
// The tree has two child layers under the root so a crash loop in one
// does not restart the other:
//
//   - data: the snapshot refresher. If it dies the API keeps serving the
//     cached evaluation, just increasingly stale.
//   - api: the HTTP server.
//
// Suture events are routed through sutureslog into the application's
// zerolog output.
package supervisor
