package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// DefaultDown is the gravity direction used when none is configured.
var DefaultDown = cp.Vector{X: 0, Y: -1}

// normalize returns the unit vector of v, or the zero vector when v is too
// short to have a direction.
func normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

func isZero(v cp.Vector) bool {
	return v.LengthSq() < Epsilon*Epsilon
}

func clampVector(v cp.Vector, bb cp.BB) cp.Vector {
	return cp.Vector{
		X: common.Clamp(v.X, bb.L, bb.R),
		Y: common.Clamp(v.Y, bb.B, bb.T),
	}
}

// lerpVector moves from a toward b by t, per component.
func lerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: common.Lerp(a.X, b.X, t), Y: common.Lerp(a.Y, b.Y, t)}
}
