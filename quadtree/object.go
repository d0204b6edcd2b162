package quadtree

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
)

// Object wraps a payload with the transform it is indexed by. The tree
// stores objects by value.
type Object[T any] struct {
	Payload   T
	Transform component.Transform
}

func NewObject[T any](payload T, t component.Transform) Object[T] {
	return Object[T]{Payload: payload, Transform: t}
}

// At is a shorthand for an object indexed at a bare point.
func At[T any](payload T, p cp.Vector) Object[T] {
	return Object[T]{Payload: payload, Transform: component.NewTransform(p.X, p.Y)}
}

func (o Object[T]) Position() cp.Vector {
	return o.Transform.Position()
}
