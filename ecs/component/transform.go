package component

import "github.com/jakecoffman/cp"

// Transform is the 2D pose of an entity. Colliders are centred on (X, Y).
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	OriginX  float64
	OriginY  float64
}

var TransformComponent = NewComponent[Transform]()

// NewTransform returns a unit-scale transform at (x, y).
func NewTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

func (t Transform) Position() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) SetPosition(p cp.Vector) {
	t.X = p.X
	t.Y = p.Y
}

func (t *Transform) Translate(d cp.Vector) {
	t.X += d.X
	t.Y += d.Y
}

// Add composes a parent offset onto a local transform. Every field adds
// componentwise, scale included.
func (t Transform) Add(parent Transform) Transform {
	return Transform{
		X:        t.X + parent.X,
		Y:        t.Y + parent.Y,
		ScaleX:   t.ScaleX + parent.ScaleX,
		ScaleY:   t.ScaleY + parent.ScaleY,
		Rotation: t.Rotation + parent.Rotation,
		OriginX:  t.OriginX + parent.OriginX,
		OriginY:  t.OriginY + parent.OriginY,
	}
}

// Sub removes a parent offset previously applied with Add.
func (t Transform) Sub(parent Transform) Transform {
	return Transform{
		X:        t.X - parent.X,
		Y:        t.Y - parent.Y,
		ScaleX:   t.ScaleX - parent.ScaleX,
		ScaleY:   t.ScaleY - parent.ScaleY,
		Rotation: t.Rotation - parent.Rotation,
		OriginX:  t.OriginX - parent.OriginX,
		OriginY:  t.OriginY - parent.OriginY,
	}
}
