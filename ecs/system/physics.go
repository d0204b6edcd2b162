package system

import (
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/physics"
)

const physicsSystemName = "PhysicsSystem"

// PhysicsSystem advances every rigid body one step and then resolves
// collisions with the configured broad phase.
type PhysicsSystem struct {
	settings   Settings
	broadphase Broadphase
	warn       warnings
	steps      uint64
}

func NewPhysicsSystem(settings Settings) *PhysicsSystem {
	settings = settings.WithDefaults()
	return &PhysicsSystem{
		settings:   settings,
		broadphase: NewBroadphase(settings),
	}
}

func (ps *PhysicsSystem) Settings() Settings {
	if ps == nil {
		return DefaultSettings()
	}
	return ps.settings
}

func (ps *PhysicsSystem) Broadphase() Broadphase {
	if ps == nil {
		return nil
	}
	return ps.broadphase
}

// Steps returns how many steps have run since creation or the last Reset.
func (ps *PhysicsSystem) Steps() uint64 {
	if ps == nil {
		return 0
	}
	return ps.steps
}

// Reset forgets logged warnings, broad phase state and the step count, so
// the system can run a freshly loaded world.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.warn.reset()
	if r, ok := ps.broadphase.(resetter); ok {
		r.reset()
	}
	ps.steps = 0
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil {
		return
	}
	ps.Step(w, ps.settings.FixedDT)
}

// Step integrates every non-static rigid body by dt and then resolves
// contacts. Each resolved contact is pushed to the world's event queue.
func (ps *PhysicsSystem) Step(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.RigidBodyComponent, func(e ecs.Entity, rb *component.RigidBody) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			ps.warn.missing(w, physicsSystemName, e, "transform")
			return
		}
		if c, ok := ecs.Get(w, e, component.ColliderComponent); ok && c.Static {
			return
		}
		physics.Integrate(rb, t, dt, ps.settings.Down)
	})

	bodies := ps.collidables(w)
	for _, evt := range ps.broadphase.Resolve(w, bodies) {
		w.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: evt})
	}
	ps.steps++
}

// collidables gathers colliders in store order. Colliders without a
// transform are skipped; non-static colliders without a rigid body still
// collide but are never moved.
func (ps *PhysicsSystem) collidables(w *ecs.World) []Collidable {
	entities := w.Query(component.ColliderComponent.Kind())
	bodies := make([]Collidable, 0, len(entities))
	for _, e := range entities {
		c, _ := ecs.Get(w, e, component.ColliderComponent)
		if !c.Shape.Valid() {
			ps.warn.once(physicsSystemName, e, "shape", "entity %v has an invalid %s collider; skipping", e, c.Shape.Kind)
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			ps.warn.missing(w, physicsSystemName, e, "transform")
			continue
		}
		rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
		if rb == nil && !c.Static {
			ps.warn.once(physicsSystemName, e, "rigid_body", "entity %v has a dynamic collider but no rigid_body; treating it as immovable", e)
		}
		bodies = append(bodies, Collidable{Entity: e, Transform: t, RigidBody: rb, Collider: c})
	}
	return bodies
}
