package system

import (
	"log"

	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/physics"
)

// Collidable is one collider taking part in a physics step. The pointers
// borrow the world's component stores for the duration of the step.
// RigidBody is nil for colliders that cannot move.
type Collidable struct {
	Entity    ecs.Entity
	Transform *component.Transform
	RigidBody *component.RigidBody
	Collider  *component.Collider
}

// Broadphase resolves every colliding pair among bodies, in order, and
// returns one event per contact it acted on.
type Broadphase interface {
	Resolve(w *ecs.World, bodies []Collidable) []ecs.CollisionEvent
}

// resetter is implemented by broad phases that keep state between steps.
type resetter interface {
	reset()
}

// NewBroadphase builds the broad phase named by settings.
func NewBroadphase(settings Settings) Broadphase {
	if settings.Broadphase == BroadphaseQuadtree {
		return NewQuadtreeBroadphase(settings.Quadtree)
	}
	return NewNaiveBroadphase()
}

// NaiveBroadphase tests every unordered pair.
type NaiveBroadphase struct{}

func NewNaiveBroadphase() *NaiveBroadphase {
	return &NaiveBroadphase{}
}

func (*NaiveBroadphase) Resolve(w *ecs.World, bodies []Collidable) []ecs.CollisionEvent {
	var events []ecs.CollisionEvent
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if evt, ok := resolvePair(w, bodies[i], bodies[j]); ok {
				events = append(events, evt)
			}
		}
	}
	return events
}

// resolvePair runs the narrow phase on the current positions of a and b
// and hands any contact to the resolver. Both transforms are borrowed
// through ecs.GetPair, so a collider is never resolved against itself.
func resolvePair(w *ecs.World, a, b Collidable) (ecs.CollisionEvent, bool) {
	ta, tb, err := ecs.GetPair(w, a.Entity, b.Entity, component.TransformComponent)
	if err != nil {
		log.Printf("Broadphase: skipping pair: %v", err)
		return ecs.CollisionEvent{}, false
	}
	contact := physics.Collide(a.Collider.Shape, ta.Position(), b.Collider.Shape, tb.Position())
	bodyA := physics.Body{Transform: ta, RigidBody: a.RigidBody, Static: a.Collider.Static}
	bodyB := physics.Body{Transform: tb, RigidBody: b.RigidBody, Static: b.Collider.Static}

	var kind ecs.CollisionEventKind
	switch physics.Resolve(bodyA, bodyB, contact) {
	case physics.ResolutionStatic:
		kind = ecs.CollisionEventStatic
	case physics.ResolutionDynamic:
		kind = ecs.CollisionEventDynamic
	default:
		return ecs.CollisionEvent{}, false
	}
	return ecs.CollisionEvent{A: a.Entity, B: b.Entity, Push: contact.Push, Kind: kind}, true
}

// warnings logs each (system, entity, message) once and reports every
// skipped entity on the world's event queue.
type warnings struct {
	seen map[warningKey]struct{}
}

type warningKey struct {
	system    string
	entity    ecs.Entity
	component string
}

func (ws *warnings) missing(w *ecs.World, system string, e ecs.Entity, comp string) {
	w.Events().Push(ecs.Event{
		Type: ecs.EventMissingComponent,
		Data: ecs.MissingComponentEvent{Entity: e, System: system, Component: comp},
	})
	ws.once(system, e, comp, "entity %v has no %s; skipping", e, comp)
}

func (ws *warnings) once(system string, e ecs.Entity, key string, format string, args ...any) {
	if ws.seen == nil {
		ws.seen = make(map[warningKey]struct{})
	}
	k := warningKey{system: system, entity: e, component: key}
	if _, ok := ws.seen[k]; ok {
		return
	}
	ws.seen[k] = struct{}{}
	log.Printf(system+": "+format, args...)
}

func (ws *warnings) reset() {
	ws.seen = nil
}
