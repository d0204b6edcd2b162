package component

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestTransformAddSubRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		local  Transform
		parent Transform
		sum    Transform
	}{
		{
			name:   "zero_scale_local",
			local:  Transform{X: 1, Y: 2},
			parent: NewTransform(10, 20),
			sum:    Transform{X: 11, Y: 22, ScaleX: 1, ScaleY: 1},
		},
		{
			name:   "all_fields",
			local:  Transform{X: -3, Y: 4, ScaleX: 2, ScaleY: 0.5, Rotation: 0.25, OriginX: 1, OriginY: -1},
			parent: Transform{X: 8, Y: -8, ScaleX: 1, ScaleY: 1.5, Rotation: 0.5, OriginX: 2, OriginY: 2},
			sum:    Transform{X: 5, Y: -4, ScaleX: 3, ScaleY: 2, Rotation: 0.75, OriginX: 3, OriginY: 1},
		},
		{
			name:   "zero_parent",
			local:  NewTransform(7, 9),
			parent: Transform{},
			sum:    NewTransform(7, 9),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.local.Add(tc.parent)
			if got != tc.sum {
				t.Fatalf("expected Add to give %+v, got %+v", tc.sum, got)
			}
			if back := got.Sub(tc.parent); back != tc.local {
				t.Fatalf("expected Sub to restore %+v, got %+v", tc.local, back)
			}
		})
	}
}

func TestTransformTranslate(t *testing.T) {
	tr := NewTransform(1, 1)
	tr.Translate(cp.Vector{X: 2, Y: -3})
	if tr.Position() != (cp.Vector{X: 3, Y: -2}) {
		t.Fatalf("expected (3,-2), got %v", tr.Position())
	}
	tr.SetPosition(cp.Vector{X: 9})
	if tr.X != 9 || tr.Y != 0 || tr.ScaleX != 1 {
		t.Fatalf("expected position (9,0) with unit scale, got %+v", tr)
	}
}
