package layout

import "math"

// sanitize clamps a spacing or indent value to a usable number: non-finite
// and negative inputs become 0. NaN must never reach cursor arithmetic; once
// a cursor goes NaN every subsequent placement is corrupted.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitizeOpt resolves an optional metric with a fallback chain: the first
// non-nil value wins and is then sanitized like any other spacing input.
func sanitizeOpt(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return sanitize(*v)
		}
	}
	return 0
}

// positiveFinite keeps a value only if it is finite and strictly positive.
// Used for pending space-after, which is dropped rather than clamped.
func positiveFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
