package component

import "github.com/jakecoffman/cp"

// RigidBody is the per-entity motion state integrated by the physics step.
//
// Acceleration only holds forces applied since the last integration; the
// integrator zeroes it every step. TerminalVelocity <= 0 disables the cap.
// When the cap is set and the current speed exceeds it, new forces are
// dropped rather than the velocity being clamped.
type RigidBody struct {
	Mass             float64
	Velocity         cp.Vector
	Acceleration     cp.Vector
	GravityScale     float64
	TerminalVelocity float64
	Elasticity       float64
}

var RigidBodyComponent = NewComponent[RigidBody]()

// NewRigidBody returns a body of the given mass with full elasticity and
// no gravity.
func NewRigidBody(mass float64) RigidBody {
	return RigidBody{Mass: mass, Elasticity: 1}
}

// HasTerminalVelocity reports whether the speed cap is active.
func (rb RigidBody) HasTerminalVelocity() bool {
	return rb.TerminalVelocity > 0
}
