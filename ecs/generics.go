package ecs

import (
	"fmt"

	"github.com/milk9111/rigid2d/ecs/component"
)

// Add attaches (or replaces) a component value on a live entity.
func Add[T any](w *World, e Entity, k component.ComponentKind[T], value *T) error {
	if w == nil || !w.IsAlive(e) {
		return fmt.Errorf("add component %d to %s: %w", k.ID(), e, component.ErrEntityNotAlive)
	}
	if !k.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add component %d to %s: %w", k.ID(), e, component.ErrNilComponent)
	}
	w.store(k.ID(), true).Set(e, value)
	return nil
}

// Remove detaches a component, reporting whether one was present.
func Remove[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(k.ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(k.ID(), false).Has(e)
}

// Get returns the stored pointer; mutating it mutates the component.
func Get[T any](w *World, e Entity, k component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	v, ok := w.store(k.ID(), false).Get(e).(*T)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// GetPair returns the components of two distinct entities at once. Asking
// for the same entity twice is an aliasing bug in the caller and fails
// with ErrAliasedEntity.
func GetPair[T any](w *World, a, b Entity, k component.ComponentKind[T]) (*T, *T, error) {
	if a.id() == b.id() {
		return nil, nil, fmt.Errorf("get pair %s/%s: %w", a, b, component.ErrAliasedEntity)
	}
	va, ok := Get(w, a, k)
	if !ok {
		return nil, nil, fmt.Errorf("get pair: %s lacks component %d: %w", a, k.ID(), component.ErrMissingComponent)
	}
	vb, ok := Get(w, b, k)
	if !ok {
		return nil, nil, fmt.Errorf("get pair: %s lacks component %d: %w", b, k.ID(), component.ErrMissingComponent)
	}
	return va, vb, nil
}

// ForEach calls fn for every live entity having the component. The entity
// list is copied first so fn may add or remove components.
func ForEach[T any](w *World, k component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(k.ID(), false)
	if s == nil {
		return
	}
	for _, e := range append([]Entity(nil), s.Entities()...) {
		v, ok := Get(w, e, k)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
