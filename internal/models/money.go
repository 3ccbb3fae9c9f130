package models

import "math"

// Round2 rounds a monetary value to two decimal places. All balance and
// amount arithmetic goes through this so repeated settlements never
// accumulate float drift beyond cent precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsFinite reports whether v is a usable monetary value.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
