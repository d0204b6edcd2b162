package quadtree

import (
	"math"

	"github.com/jakecoffman/cp"
)

// RangeKind tags the variant held by a Range.
type RangeKind uint8

const (
	RangeCircle RangeKind = iota + 1
	RangeRect
)

// Range is the query region of QueryRange: a circle or an axis-aligned
// rectangle. Boundaries are inclusive.
type Range struct {
	Kind   RangeKind
	Center cp.Vector
	Radius float64
	BB     cp.BB
}

func CircleRange(center cp.Vector, radius float64) Range {
	return Range{Kind: RangeCircle, Center: center, Radius: radius}
}

// RectRange builds a rectangle from its lower-left corner.
func RectRange(min cp.Vector, width, height float64) Range {
	return Range{Kind: RangeRect, BB: cp.BB{L: min.X, B: min.Y, R: min.X + width, T: min.Y + height}}
}

// Contains reports whether p lies inside the range.
func (r Range) Contains(p cp.Vector) bool {
	switch r.Kind {
	case RangeCircle:
		return p.Sub(r.Center).LengthSq() <= r.Radius*r.Radius
	case RangeRect:
		return r.BB.ContainsVect(p)
	default:
		return false
	}
}

// overlaps reports whether any point of bb may be inside the range.
func (r Range) overlaps(bb cp.BB) bool {
	switch r.Kind {
	case RangeCircle:
		return distanceSqToBB(r.Center, bb) <= r.Radius*r.Radius
	case RangeRect:
		return r.BB.Intersects(bb)
	default:
		return false
	}
}

func distanceSqToBB(p cp.Vector, bb cp.BB) float64 {
	dx := math.Max(bb.L-p.X, math.Max(0, p.X-bb.R))
	dy := math.Max(bb.B-p.Y, math.Max(0, p.Y-bb.T))
	return dx*dx + dy*dy
}
