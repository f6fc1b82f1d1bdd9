// Package metrics derives the per-domain dashboard summaries. Every function
// here is a pure reduction over a snapshot of records: no I/O, no hidden
// state, deterministic and order-independent for all histogram outputs.
package metrics

import "math"

// round1 rounds to one decimal place, the precision used by every rate and
// score the dashboard displays.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clampPercent pins a raw rate into [0,100]. Source counters are externally
// maintained and can disagree (completed > enrolled), so percentages are
// clamped rather than trusted.
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
