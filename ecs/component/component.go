package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
	ErrMissingComponent     = errors.New("ecs: missing component")
	ErrAliasedEntity        = errors.New("ecs: same entity requested twice")
)

// ComponentKind identifies one component store. Two kinds created for the
// same Go type are distinct stores.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Kind returns k, so a registered component can be passed wherever a kind
// is expected.
func (k ComponentKind[T]) Kind() ComponentKind[T] {
	return k
}

// ComponentHandle is the package-level value a component is registered
// under.
type ComponentHandle[T any] = ComponentKind[T]

func NewComponent[T any]() ComponentHandle[T] {
	return NewComponentKind[T]()
}

type ComponentID uint32

var nextComponentID atomic.Uint32
