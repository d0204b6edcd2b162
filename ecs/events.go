package ecs

import "github.com/jakecoffman/cp"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventCollision        = "collision"
	EventMissingComponent = "missing_component"
)

// CollisionEventKind identifies how a contact was resolved.
type CollisionEventKind string

const (
	CollisionEventStatic  CollisionEventKind = "static"
	CollisionEventDynamic CollisionEventKind = "dynamic"
)

// CollisionEvent is emitted for every contact the resolver acted on.
// Push points from B toward A.
type CollisionEvent struct {
	A    Entity
	B    Entity
	Push cp.Vector
	Kind CollisionEventKind
}

// MissingComponentEvent reports an entity skipped for a frame because a
// component it needs is absent.
type MissingComponentEvent struct {
	Entity    Entity
	System    string
	Component string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
