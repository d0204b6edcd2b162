package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SceneSpec is a whole simulation: physics settings plus the entities to
// spawn, in declaration order.
type SceneSpec struct {
	Name     string            `yaml:"name"`
	Physics  PhysicsSpec       `yaml:"physics"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

type PhysicsSpec struct {
	FixedDT    float64      `yaml:"fixed_dt,omitempty"`
	Down       *VectorSpec  `yaml:"down,omitempty"`
	Broadphase string       `yaml:"broadphase,omitempty"`
	Quadtree   QuadtreeSpec `yaml:"quadtree,omitempty"`
}

type QuadtreeSpec struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Width          float64 `yaml:"width"`
	MaxDepth       *uint32 `yaml:"max_depth,omitempty"`
	MaxLeafObjects int     `yaml:"max_leaf_objects,omitempty"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(name string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return SceneSpec{}, err
	}
	if len(spec.Entities) == 0 {
		return SceneSpec{}, fmt.Errorf("prefabs: scene %s defines no entities", name)
	}
	return spec, nil
}

// MarshalScene renders a scene back to YAML.
func MarshalScene(spec SceneSpec) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal scene %s: %w", spec.Name, err)
	}
	return data, nil
}

// DecodeComponentSpec converts the loosely typed map yaml produced for a
// component into its spec struct.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x,omitempty"`
	ScaleY   float64 `yaml:"scale_y,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty"`
	OriginX  float64 `yaml:"origin_x,omitempty"`
	OriginY  float64 `yaml:"origin_y,omitempty"`
}

type RigidBodyComponentSpec struct {
	Mass             float64    `yaml:"mass"`
	Velocity         VectorSpec `yaml:"velocity,omitempty"`
	GravityScale     *float64   `yaml:"gravity_scale,omitempty"`
	TerminalVelocity float64    `yaml:"terminal_velocity,omitempty"`
	Elasticity       *float64   `yaml:"elasticity,omitempty"`
}

type ColliderComponentSpec struct {
	Circle *CircleSpec `yaml:"circle,omitempty"`
	Box    *BoxSpec    `yaml:"box,omitempty"`
	Static bool        `yaml:"static,omitempty"`
}

type CircleSpec struct {
	Radius float64 `yaml:"radius"`
}

type BoxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ForceScriptComponentSpec struct {
	Path string `yaml:"path"`
}
