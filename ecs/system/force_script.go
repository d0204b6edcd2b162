package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/prefabs"
)

const forceScriptSystemName = "ForceScriptSystem"

// ScriptLoader returns the source of a script by path.
type ScriptLoader func(path string) ([]byte, error)

// ForceScriptSystem runs each entity's force script once per frame and
// applies the resulting force to its rigid body. It must run before the
// physics step so the force is integrated the same frame.
type ForceScriptSystem struct {
	load  ScriptLoader
	cache map[ecs.Entity]*forceScriptRuntime
	warn  warnings
	frame int64
}

type forceScriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	err      error
}

var forceScriptInputs = []string{"x", "y", "vx", "vy", "mass", "frame", "fx", "fy"}

// NewForceScriptSystem uses load to fetch script sources; nil reads them
// through prefabs.LoadScript.
func NewForceScriptSystem(load ScriptLoader) *ForceScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ForceScriptSystem{
		load:  load,
		cache: make(map[ecs.Entity]*forceScriptRuntime),
	}
}

// Invalidate drops every compiled script so the next frame reloads them.
func (s *ForceScriptSystem) Invalidate() {
	if s == nil {
		return
	}
	s.cache = make(map[ecs.Entity]*forceScriptRuntime)
	s.warn.reset()
}

func (s *ForceScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.prune(w)
	ecs.ForEach(w, component.ForceScriptComponent, func(e ecs.Entity, fs *component.ForceScript) {
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			s.warn.missing(w, forceScriptSystemName, e, "transform")
			return
		}
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok {
			s.warn.missing(w, forceScriptSystemName, e, "rigid_body")
			return
		}

		rt := s.runtime(e, fs.Path)
		if rt.err != nil {
			s.warn.once(forceScriptSystemName, e, "load "+rt.path, "entity %v script %q: %v", e, rt.path, rt.err)
			return
		}
		force, err := rt.run(t, rb, s.frame)
		if err != nil {
			s.warn.once(forceScriptSystemName, e, "run "+rt.path, "entity %v script %q: %v", e, rt.path, err)
			return
		}
		physics.ApplyForce(rb, force)
	})
	s.frame++
}

// prune drops compiled scripts of destroyed or unscripted entities.
func (s *ForceScriptSystem) prune(w *ecs.World) {
	for e := range s.cache {
		if !ecs.Has(w, e, component.ForceScriptComponent) {
			delete(s.cache, e)
		}
	}
}

func (s *ForceScriptSystem) runtime(e ecs.Entity, path string) *forceScriptRuntime {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt
	}
	rt := &forceScriptRuntime{path: path}
	rt.compiled, rt.err = s.compile(path)
	s.cache[e] = rt
	return rt
}

func (s *ForceScriptSystem) compile(path string) (*tengo.Compiled, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	src, err := s.load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	script := tengo.NewScript(src)
	for _, name := range forceScriptInputs {
		if err := script.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
}

func (rt *forceScriptRuntime) run(t *component.Transform, rb *component.RigidBody, frame int64) (cp.Vector, error) {
	inputs := map[string]any{
		"x":     t.X,
		"y":     t.Y,
		"vx":    rb.Velocity.X,
		"vy":    rb.Velocity.Y,
		"mass":  rb.Mass,
		"frame": frame,
		"fx":    0.0,
		"fy":    0.0,
	}
	for name, v := range inputs {
		if err := rt.compiled.Set(name, v); err != nil {
			return cp.Vector{}, err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return cp.Vector{}, err
	}
	return cp.Vector{X: rt.compiled.Get("fx").Float(), Y: rt.compiled.Get("fy").Float()}, nil
}
