// Package compass provides circular-angle math and smooth heading
// animation for a rotatable map surface.
package compass

import "math"

// Normalize maps any degree value to the canonical range [0, 360).
// Correct for negative inputs: Normalize(-10) = 350.
func Normalize(h float64) float64 {
	r := math.Mod(h, 360)
	if r < 0 {
		r += 360
	}
	if r == 360 {
		// Rounding can land exactly on 360 for tiny negative inputs.
		r = 0
	}
	return r
}

// ShortestDelta returns the signed displacement in (-180, 180] that
// rotates from one heading to the other along the shorter arc.
// Positive is clockwise. The ±180 tie resolves to +180.
func ShortestDelta(from, to float64) float64 {
	d := Normalize(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

// EaseOutCubic maps animation progress t in [0, 1] to an eased value
// in [0, 1]: fast start, decelerating finish.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// clamp01 restricts a value to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
