// Fieldscope - Field Service Operations Intelligence
// Copyright 2026 The Fieldscope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldscope/fieldscope

package signals

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// haversineDistance returns the great-circle distance in kilometers
// between two WGS84 points. Full trigonometric haversine, no flat-earth
// shortcut: the dispatch radius comparisons are on the order of single
// kilometers, where approximation error would matter.
func haversineDistance(from, to Coordinates) float64 {
	fromLatRad := from.Lat * math.Pi / 180
	toLatRad := to.Lat * math.Pi / 180
	deltaLat := (to.Lat - from.Lat) * math.Pi / 180
	deltaLng := (to.Lng - from.Lng) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(fromLatRad)*math.Cos(toLatRad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// roundTo2Decimals trims float noise from values destined for evidence
// payloads and human-readable reasons.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
