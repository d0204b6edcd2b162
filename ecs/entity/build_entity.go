package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/prefabs"
)

var (
	ErrNoComponents     = errors.New("entity: spec defines no components")
	ErrInvalidShape     = errors.New("entity: collider needs exactly one positive circle or box")
	ErrInvalidBody      = errors.New("entity: invalid rigid body")
	ErrEmptyScript      = errors.New("entity: force script path is empty")
	ErrUnknownComponent = errors.New("entity: no builder for component")
)

type entitySpec = prefabs.EntityBuildSpec

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"transform":    addTransform,
	"rigid_body":   addRigidBody,
	"collider":     addCollider,
	"force_script": addForceScript,
}

var componentBuildOrder = []string{
	"transform",
	"rigid_body",
	"collider",
	"force_script",
}

// BuildEntity creates one entity from spec. On error nothing is left in the
// world.
func BuildEntity(w *ecs.World, spec entitySpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity %q: %w", spec.Name, ErrNoComponents)
	}

	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	ordered := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			ordered = append(ordered, name)
			delete(remaining, name)
		}
	}
	extra := make([]string, 0, len(remaining))
	for name := range remaining {
		extra = append(extra, name)
	}
	sort.Strings(extra)

	for _, name := range append(ordered, extra...) {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity %q: %q: %w", spec.Name, name, ErrUnknownComponent)
		}
		if err := builder(w, e, spec.Components[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity %q: add %q: %w", spec.Name, name, err)
		}
	}

	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity %q: add name: %w", spec.Name, err)
		}
	}

	return e, nil
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
		OriginX:  spec.OriginX,
		OriginY:  spec.OriginY,
	})
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	if spec.Mass == 0 {
		spec.Mass = 1
	}
	if spec.Mass < 0 {
		return fmt.Errorf("mass %g: %w", spec.Mass, ErrInvalidBody)
	}

	rb := component.NewRigidBody(spec.Mass)
	rb.Velocity = cp.Vector{X: spec.Velocity.X, Y: spec.Velocity.Y}
	rb.TerminalVelocity = spec.TerminalVelocity
	rb.GravityScale = common.Gravity
	if spec.GravityScale != nil {
		rb.GravityScale = *spec.GravityScale
	}
	if spec.Elasticity != nil {
		if *spec.Elasticity < 0 || *spec.Elasticity > 1 {
			return fmt.Errorf("elasticity %g: %w", *spec.Elasticity, ErrInvalidBody)
		}
		rb.Elasticity = *spec.Elasticity
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &rb)
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}

	var shape component.Shape
	switch {
	case spec.Circle != nil && spec.Box == nil:
		shape = component.Circle(spec.Circle.Radius)
	case spec.Box != nil && spec.Circle == nil:
		shape = component.Box(spec.Box.Width, spec.Box.Height)
	default:
		return ErrInvalidShape
	}
	if !shape.Valid() {
		return fmt.Errorf("%s: %w", shape.Kind, ErrInvalidShape)
	}

	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: shape, Static: spec.Static})
}

type forceScriptSpec = prefabs.ForceScriptComponentSpec

func addForceScript(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[forceScriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode force script spec: %w", err)
	}
	if spec.Path == "" {
		return ErrEmptyScript
	}
	return ecs.Add(w, e, component.ForceScriptComponent.Kind(), &component.ForceScript{Path: spec.Path})
}
