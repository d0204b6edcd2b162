package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
)

// Contact is the narrow-phase result for an ordered shape pair. Push points
// from shape 2 toward shape 1 and its length is the overlap depth; moving
// shape 1 by Push separates the pair.
type Contact struct {
	Colliding bool
	Push      cp.Vector
}

// Collide selects the test for the two shape tags. Invalid shapes never
// collide.
func Collide(a component.Shape, pa cp.Vector, b component.Shape, pb cp.Vector) Contact {
	if !a.Valid() || !b.Valid() {
		return Contact{}
	}
	switch a.Kind {
	case component.ShapeCircle:
		switch b.Kind {
		case component.ShapeCircle:
			return CircleCircle(pa, a.Radius, pb, b.Radius)
		case component.ShapeBox:
			return CircleBox(pa, a.Radius, pb, b.Width, b.Height)
		}
	case component.ShapeBox:
		switch b.Kind {
		case component.ShapeCircle:
			return BoxCircle(pa, a.Width, a.Height, pb, b.Radius)
		case component.ShapeBox:
			return BoxBox(pa, a.Width, a.Height, pb, b.Width, b.Height)
		}
	}
	return Contact{}
}

// CircleCircle collides when the centre distance is at most r1+r2.
// Coincident centres collide with a zero push, which the resolver skips.
func CircleCircle(c1 cp.Vector, r1 float64, c2 cp.Vector, r2 float64) Contact {
	delta := c1.Sub(c2)
	dist := delta.Length()
	sum := r1 + r2
	if dist > sum {
		return Contact{}
	}
	if dist < Epsilon {
		return Contact{Colliding: true}
	}
	return Contact{
		Colliding: true,
		Push:      normalize(delta).Mult(-(dist - sum)),
	}
}

// CircleBox tests a circle (shape 1) against a box of the given size
// centred at boxCenter (shape 2).
func CircleBox(center cp.Vector, radius float64, boxCenter cp.Vector, width, height float64) Contact {
	bb := cp.NewBBForExtents(boxCenter, width/2, height/2)
	closest := clampVector(center, bb)
	toClosest := closest.Sub(center)
	if isZero(toClosest) {
		// Centre inside the box: fixed placeholder depth.
		return Contact{Colliding: true, Push: cp.Vector{X: radius, Y: radius}}
	}
	dist := toClosest.Length()
	if dist > radius {
		return Contact{}
	}
	return Contact{
		Colliding: true,
		Push:      normalize(toClosest).Mult(dist - radius),
	}
}

// BoxCircle is CircleBox with the operands swapped; the push is negated so
// it still points toward shape 1.
func BoxCircle(boxCenter cp.Vector, width, height float64, center cp.Vector, radius float64) Contact {
	c := CircleBox(center, radius, boxCenter, width, height)
	c.Push = c.Push.Neg()
	return c
}

// BoxBox resolves from the corner of box 1 nearest box 2's centre: the push
// is the smallest axis-aligned move taking that corner out of box 2. When
// the corner is not inside box 2 the interval overlap of the two boxes is
// used instead.
func BoxBox(p1 cp.Vector, w1, h1 float64, p2 cp.Vector, w2, h2 float64) Contact {
	bb1 := cp.NewBBForExtents(p1, w1/2, h1/2)
	bb2 := cp.NewBBForExtents(p2, w2/2, h2/2)
	if !bb1.Intersects(bb2) {
		return Contact{}
	}

	corners := [4]cp.Vector{
		{X: bb1.L, Y: bb1.B},
		{X: bb1.L, Y: bb1.T},
		{X: bb1.R, Y: bb1.B},
		{X: bb1.R, Y: bb1.T},
	}
	corner := corners[0]
	best := corner.Sub(p2).LengthSq()
	for _, c := range corners[1:] {
		if d := c.Sub(p2).LengthSq(); d < best {
			best = d
			corner = c
		}
	}

	if bb2.ContainsVect(corner) {
		dx := bb2.R - corner.X
		if p1.X < p2.X {
			dx = bb2.L - corner.X
		}
		dy := bb2.T - corner.Y
		if p1.Y < p2.Y {
			dy = bb2.B - corner.Y
		}
		if math.Abs(dx) < math.Abs(dy) {
			return Contact{Colliding: true, Push: cp.Vector{X: dx}}
		}
		return Contact{Colliding: true, Push: cp.Vector{Y: dy}}
	}

	overlapX := math.Min(bb1.R, bb2.R) - math.Max(bb1.L, bb2.L)
	overlapY := math.Min(bb1.T, bb2.T) - math.Max(bb1.B, bb2.B)
	sx, sy := 1.0, 1.0
	if p1.X < p2.X {
		sx = -1
	}
	if p1.Y < p2.Y {
		sy = -1
	}
	if overlapX < overlapY {
		return Contact{Colliding: true, Push: cp.Vector{X: sx * overlapX}}
	}
	return Contact{Colliding: true, Push: cp.Vector{Y: sy * overlapY}}
}
