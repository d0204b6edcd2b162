package component

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota + 1
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("shape(%d)", uint8(k))
	}
}

// Shape is a closed tagged variant: Circle{Radius} or Box{Width, Height}.
// Only the fields of the tagged variant are meaningful.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
}

func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

func Box(width, height float64) Shape {
	return Shape{Kind: ShapeBox, Width: width, Height: height}
}

// Valid reports whether the variant's dimensions are positive.
func (s Shape) Valid() bool {
	switch s.Kind {
	case ShapeCircle:
		return s.Radius > 0
	case ShapeBox:
		return s.Width > 0 && s.Height > 0
	default:
		return false
	}
}

// BB returns the axis-aligned bounds of the shape centred at pos.
func (s Shape) BB(pos cp.Vector) cp.BB {
	switch s.Kind {
	case ShapeCircle:
		return cp.NewBBForExtents(pos, s.Radius, s.Radius)
	case ShapeBox:
		return cp.NewBBForExtents(pos, s.Width/2, s.Height/2)
	default:
		return cp.BB{L: pos.X, B: pos.Y, R: pos.X, T: pos.Y}
	}
}

// BoundingRadius is the radius of the smallest circle around the shape's
// centre that contains it.
func (s Shape) BoundingRadius() float64 {
	switch s.Kind {
	case ShapeCircle:
		return s.Radius
	case ShapeBox:
		return math.Hypot(s.Width/2, s.Height/2)
	default:
		return 0
	}
}

// Collider attaches a shape to an entity. Static colliders take part in
// tests but are never moved by the resolver.
type Collider struct {
	Shape  Shape
	Static bool
}

var ColliderComponent = NewComponent[Collider]()
