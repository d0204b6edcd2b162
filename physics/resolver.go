package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
)

// Resolution reports what Resolve did with a contact.
type Resolution uint8

const (
	ResolutionNone Resolution = iota
	ResolutionStatic
	ResolutionDynamic
)

func (r Resolution) String() string {
	switch r {
	case ResolutionStatic:
		return "static"
	case ResolutionDynamic:
		return "dynamic"
	default:
		return "none"
	}
}

// Body is one side of a contact: borrowed pointers into the component
// stores plus the collider's static flag. RigidBody may be nil for
// colliders that never move.
type Body struct {
	Transform *component.Transform
	RigidBody *component.RigidBody
	Static    bool
}

// Movable reports whether the resolver may displace the body.
func (b Body) Movable() bool {
	return !b.Static && b.Transform != nil && b.RigidBody != nil
}

// Resolve applies a contact between a (shape 1) and b (shape 2). A contact
// with a zero push is ignored even when Colliding is set.
func Resolve(a, b Body, c Contact) Resolution {
	if !c.Colliding || isZero(c.Push) {
		return ResolutionNone
	}
	switch am, bm := a.Movable(), b.Movable(); {
	case !am && !bm:
		return ResolutionNone
	case am && !bm:
		if HandleStaticCollision(a.Transform, a.RigidBody, c.Push) {
			return ResolutionStatic
		}
	case !am && bm:
		if HandleStaticCollision(b.Transform, b.RigidBody, c.Push.Neg()) {
			return ResolutionStatic
		}
	default:
		if HandleNonStaticCollision(a.Transform, a.RigidBody, b.Transform, b.RigidBody, c.Push) {
			return ResolutionDynamic
		}
	}
	return ResolutionNone
}

// HandleStaticCollision pushes a moving body fully out of a static one and
// turns its velocity toward the contact normal, keeping the speed scaled by
// the body's elasticity. The previous direction of travel is discarded.
func HandleStaticCollision(t *component.Transform, rb *component.RigidBody, push cp.Vector) bool {
	if t == nil || rb == nil || isZero(push) {
		return false
	}
	t.Translate(push)
	speed := rb.Velocity.Length()
	rb.Velocity = normalize(push).Mult(speed * rb.Elasticity)
	return true
}

// HandleNonStaticCollision separates two moving bodies and exchanges
// momentum between them.
//
// Each body moves by the push weighted with the other body's share of the
// total mass. Velocities come from the two-body elastic formula, then each
// direction is blended toward the contact normal (+n for body 1, -n for
// body 2) by that body's share of the pre-contact momentum and rescaled to
// its elastic speed. The average elasticity interpolates between the
// pre-contact and blended velocities.
func HandleNonStaticCollision(t1 *component.Transform, rb1 *component.RigidBody, t2 *component.Transform, rb2 *component.RigidBody, push cp.Vector) bool {
	if t1 == nil || rb1 == nil || t2 == nil || rb2 == nil || isZero(push) {
		return false
	}
	m1, m2 := rb1.Mass, rb2.Mass
	total := m1 + m2
	if total < Epsilon {
		return false
	}

	t1.Translate(push.Mult(m2 / total))
	t2.Translate(push.Mult(-m1 / total))

	v1, v2 := rb1.Velocity, rb2.Velocity
	e1 := v2.Sub(v1).Mult(m2).Add(v1.Mult(m1)).Add(v2.Mult(m2)).Mult(1 / total)
	e2 := v1.Sub(v2).Mult(m1).Add(v1.Mult(m1)).Add(v2.Mult(m2)).Mult(1 / total)

	b1, b2 := e1, e2
	p1 := m1 * v1.Length()
	p2 := m2 * v2.Length()
	if pt := p1 + p2; pt > Epsilon {
		n := normalize(push)
		b1 = blendToward(e1, n, p1/pt)
		b2 = blendToward(e2, n.Neg(), p2/pt)
	}

	avg := (rb1.Elasticity + rb2.Elasticity) / 2
	rb1.Velocity = lerpVector(v1, b1, avg)
	rb2.Velocity = lerpVector(v2, b2, avg)
	return true
}

// blendToward mixes v's direction with normal, keeping share of v's own
// direction, and returns the result at v's speed.
func blendToward(v, normal cp.Vector, share float64) cp.Vector {
	speed := v.Length()
	mixed := normalize(v).Mult(share).Add(normal.Mult(1 - share))
	if isZero(mixed) {
		return v
	}
	return normalize(mixed).Mult(speed)
}
