package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
)

// ApplyForce accumulates f/Mass into the body's acceleration. The force is
// dropped when the body is already faster than its terminal velocity or
// has no positive mass.
func ApplyForce(rb *component.RigidBody, f cp.Vector) bool {
	if rb == nil || rb.Mass <= 0 {
		return false
	}
	if rb.HasTerminalVelocity() && rb.Velocity.Length() > rb.TerminalVelocity {
		return false
	}
	rb.Acceleration = rb.Acceleration.Add(f.Mult(1 / rb.Mass))
	return true
}

// Integrate advances one semi-implicit Euler step: gravity is applied as a
// force of magnitude GravityScale along down, the accumulated acceleration
// is folded into velocity and cleared, then the position moves by the new
// velocity times dt. A zero down uses DefaultDown.
func Integrate(rb *component.RigidBody, t *component.Transform, dt float64, down cp.Vector) {
	if rb == nil || t == nil {
		return
	}
	if isZero(down) {
		down = DefaultDown
	}
	if rb.GravityScale != 0 {
		ApplyForce(rb, normalize(down).Mult(rb.GravityScale))
	}
	rb.Velocity = rb.Velocity.Add(rb.Acceleration)
	rb.Acceleration = cp.Vector{}
	t.Translate(rb.Velocity.Mult(dt))
}
