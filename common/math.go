package common

import "math"

const (
	// Gravity is the default gravity scale for bodies built from scenes.
	Gravity = 9.807

	BaseWidth  = 1280
	BaseHeight = 720

	// FixedDT is the default physics step: one frame at 60 ticks per second.
	FixedDT = 1.0 / 60.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual compares with an absolute tolerance.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
