// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import (
	"net/url"
	"strconv"
)

// Deep link construction. Every signal links at least its primary entity;
// job signals additionally get a route-planning link when an origin crew
// position resolves, falling back to a plain maps search on the address.

func jobLink(job *Job) DeepLink {
	return DeepLink{Label: "Open job", Href: "/jobs/" + url.PathEscape(job.ID)}
}

func crewLink(crew *Crew) DeepLink {
	return DeepLink{Label: "Open crew", Href: "/crews/" + url.PathEscape(crew.ID)}
}

// jobDeepLinks builds the link set for a job signal. origin is the crew
// whose position should anchor driving directions (the assigned crew, the
// nearest idle match) and may be nil.
func (ev *evaluation) jobDeepLinks(job *Job, origin *Crew) []DeepLink {
	links := []DeepLink{jobLink(job)}
	if job.Address == "" {
		return links
	}
	if origin != nil {
		if from, ok := ev.crewCoordinates(origin); ok {
			links = append(links, DeepLink{
				Label: "Route to site",
				Href: "https://www.google.com/maps/dir/?api=1&origin=" +
					formatCoordinates(from) +
					"&destination=" + url.QueryEscape(job.Address),
				External: true,
			})
			return links
		}
	}
	links = append(links, DeepLink{
		Label:    "Locate on map",
		Href:     "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(job.Address),
		External: true,
	})
	return links
}

// formatCoordinates renders a position as "lat,lng" with six decimal
// places (≈11cm), the precision maps providers expect in URLs.
func formatCoordinates(c Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}
