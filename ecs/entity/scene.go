package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/ecs/system"
	"github.com/milk9111/rigid2d/prefabs"
)

// BuildScene creates the scene's entities in declaration order. If any
// entity fails, the ones already created are destroyed again.
func BuildScene(w *ecs.World, spec prefabs.SceneSpec) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}
	built := make([]ecs.Entity, 0, len(spec.Entities))
	for i, es := range spec.Entities {
		e, err := BuildEntity(w, es)
		if err != nil {
			for _, prev := range built {
				ecs.DestroyEntity(w, prev)
			}
			return nil, fmt.Errorf("build scene %q: entity %d: %w", spec.Name, i, err)
		}
		built = append(built, e)
	}
	return built, nil
}

// LoadScene reads a scene through prefabs.Load and builds it into w.
func LoadScene(w *ecs.World, name string) (prefabs.SceneSpec, []ecs.Entity, error) {
	spec, err := prefabs.LoadSceneSpec(name)
	if err != nil {
		return prefabs.SceneSpec{}, nil, err
	}
	entities, err := BuildScene(w, spec)
	if err != nil {
		return prefabs.SceneSpec{}, nil, err
	}
	return spec, entities, nil
}

// Settings converts a scene's physics block into system settings. Fields
// left out of the scene keep their defaults.
func Settings(spec prefabs.PhysicsSpec) (system.Settings, error) {
	settings := system.DefaultSettings()
	if spec.FixedDT < 0 {
		return settings, fmt.Errorf("physics settings: fixed_dt %g must be positive", spec.FixedDT)
	}
	if spec.FixedDT > 0 {
		settings.FixedDT = spec.FixedDT
	}
	if spec.Down != nil {
		settings.Down = cp.Vector{X: spec.Down.X, Y: spec.Down.Y}
	}
	kind, err := system.ParseBroadphase(spec.Broadphase)
	if err != nil {
		return settings, fmt.Errorf("physics settings: %w", err)
	}
	settings.Broadphase = kind

	qt := spec.Quadtree
	settings.Quadtree.Origin = cp.Vector{X: qt.X, Y: qt.Y}
	if qt.Width > 0 {
		settings.Quadtree.Width = qt.Width
	}
	if qt.MaxDepth != nil {
		settings.Quadtree.MaxDepth = *qt.MaxDepth
		settings.Quadtree.DepthLimited = true
	}
	settings.Quadtree.MaxLeafObjects = qt.MaxLeafObjects
	return settings, nil
}

// SnapshotScene captures the world's current state as a scene that
// BuildScene can rebuild. Entities without a transform are left out.
func SnapshotScene(w *ecs.World, name string, settings system.Settings) prefabs.SceneSpec {
	scene := prefabs.SceneSpec{Name: name, Physics: physicsSpec(settings)}
	for _, e := range ecs.Entities(w) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		es := prefabs.EntityBuildSpec{
			Name:       fmt.Sprintf("entity_%d", e.ID()),
			Components: map[string]any{"transform": transformSnapshot(t)},
		}
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value != "" {
			es.Name = n.Value
		}
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
			gravity, elasticity := rb.GravityScale, rb.Elasticity
			es.Components["rigid_body"] = prefabs.RigidBodyComponentSpec{
				Mass:             rb.Mass,
				Velocity:         prefabs.VectorSpec{X: rb.Velocity.X, Y: rb.Velocity.Y},
				GravityScale:     &gravity,
				TerminalVelocity: rb.TerminalVelocity,
				Elasticity:       &elasticity,
			}
		}
		if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			es.Components["collider"] = colliderSnapshot(c)
		}
		if fs, ok := ecs.Get(w, e, component.ForceScriptComponent.Kind()); ok {
			es.Components["force_script"] = prefabs.ForceScriptComponentSpec{Path: fs.Path}
		}
		scene.Entities = append(scene.Entities, es)
	}
	return scene
}

func transformSnapshot(t *component.Transform) prefabs.TransformComponentSpec {
	return prefabs.TransformComponentSpec{
		X:        t.X,
		Y:        t.Y,
		ScaleX:   t.ScaleX,
		ScaleY:   t.ScaleY,
		Rotation: t.Rotation,
		OriginX:  t.OriginX,
		OriginY:  t.OriginY,
	}
}

func colliderSnapshot(c *component.Collider) prefabs.ColliderComponentSpec {
	spec := prefabs.ColliderComponentSpec{Static: c.Static}
	switch c.Shape.Kind {
	case component.ShapeCircle:
		spec.Circle = &prefabs.CircleSpec{Radius: c.Shape.Radius}
	case component.ShapeBox:
		spec.Box = &prefabs.BoxSpec{Width: c.Shape.Width, Height: c.Shape.Height}
	}
	return spec
}

func physicsSpec(s system.Settings) prefabs.PhysicsSpec {
	spec := prefabs.PhysicsSpec{
		FixedDT:    s.FixedDT,
		Down:       &prefabs.VectorSpec{X: s.Down.X, Y: s.Down.Y},
		Broadphase: string(s.Broadphase),
		Quadtree: prefabs.QuadtreeSpec{
			X:              s.Quadtree.Origin.X,
			Y:              s.Quadtree.Origin.Y,
			Width:          s.Quadtree.Width,
			MaxLeafObjects: s.Quadtree.MaxLeafObjects,
		},
	}
	if s.Quadtree.DepthLimited {
		depth := s.Quadtree.MaxDepth
		spec.Quadtree.MaxDepth = &depth
	}
	return spec
}
