package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
)

func TestCircleCircle(t *testing.T) {
	cases := []struct {
		name      string
		c1        cp.Vector
		r1        float64
		c2        cp.Vector
		r2        float64
		colliding bool
		push      cp.Vector
	}{
		{"apart", cp.Vector{X: 0}, 1, cp.Vector{X: 3}, 1, false, cp.Vector{}},
		{"touching", cp.Vector{X: 0}, 1, cp.Vector{X: 2}, 1, true, cp.Vector{}},
		{"overlap_x", cp.Vector{X: 0}, 2, cp.Vector{X: 3}, 2, true, cp.Vector{X: -1}},
		{"overlap_y_body1_above", cp.Vector{Y: 5}, 2, cp.Vector{Y: 2}, 2, true, cp.Vector{Y: 1}},
		{"coincident", cp.Vector{X: 1, Y: 1}, 1, cp.Vector{X: 1, Y: 1}, 1, true, cp.Vector{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CircleCircle(tc.c1, tc.r1, tc.c2, tc.r2)
			if got.Colliding != tc.colliding {
				t.Fatalf("expected colliding=%v, got %v", tc.colliding, got.Colliding)
			}
			if !vecNear(got.Push, tc.push, 1e-9) {
				t.Fatalf("expected push %v, got %v", tc.push, got.Push)
			}
		})
	}
}

func TestCircleCirclePushMatchesDepth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		r1 := 0.5 + rng.Float64()*10
		r2 := 0.5 + rng.Float64()*10
		angle := rng.Float64() * 2 * math.Pi
		dist := 0.01 + rng.Float64()*(r1+r2-0.01)
		c2 := cp.Vector{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		c1 := c2.Add(cp.Vector{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist})

		got := CircleCircle(c1, r1, c2, r2)
		if !got.Colliding {
			t.Fatalf("case %d: expected collision at dist %v with radii %v %v", i, dist, r1, r2)
		}
		depth := r1 + r2 - c1.Sub(c2).Length()
		if math.Abs(got.Push.Length()-depth) > 1e-6 {
			t.Fatalf("case %d: push length %v, want depth %v", i, got.Push.Length(), depth)
		}
		// push points from circle 2 toward circle 1
		if got.Push.Dot(c1.Sub(c2)) < 0 {
			t.Fatalf("case %d: push %v points away from circle 1", i, got.Push)
		}
	}
}

func TestCircleBox(t *testing.T) {
	cases := []struct {
		name      string
		center    cp.Vector
		radius    float64
		colliding bool
		push      cp.Vector
	}{
		{"above_apart", cp.Vector{Y: 20}, 5, false, cp.Vector{}},
		{"above_overlap", cp.Vector{Y: 13}, 5, true, cp.Vector{Y: 2}},
		{"below_overlap", cp.Vector{Y: -14}, 5, true, cp.Vector{Y: -1}},
		{"left_overlap", cp.Vector{X: -23}, 5, true, cp.Vector{X: -2}},
		{"corner_apart", cp.Vector{X: 24, Y: 14}, 5, false, cp.Vector{}},
		{"inside_placeholder", cp.Vector{X: 1, Y: 1}, 5, true, cp.Vector{X: 5, Y: 5}},
	}
	// box: 40x20 centred at origin
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CircleBox(tc.center, tc.radius, cp.Vector{}, 40, 20)
			if got.Colliding != tc.colliding {
				t.Fatalf("expected colliding=%v, got %v", tc.colliding, got.Colliding)
			}
			if !vecNear(got.Push, tc.push, 1e-9) {
				t.Fatalf("expected push %v, got %v", tc.push, got.Push)
			}

			swapped := BoxCircle(cp.Vector{}, 40, 20, tc.center, tc.radius)
			if swapped.Colliding != got.Colliding || !vecNear(swapped.Push, got.Push.Neg(), 1e-9) {
				t.Fatalf("box-circle should mirror circle-box, got %+v vs %+v", swapped, got)
			}
		})
	}
}

func TestBoxBox(t *testing.T) {
	cases := []struct {
		name      string
		p1        cp.Vector
		w1, h1    float64
		p2        cp.Vector
		w2, h2    float64
		colliding bool
		push      cp.Vector
	}{
		{"apart", cp.Vector{X: -20}, 10, 10, cp.Vector{X: 20}, 10, 10, false, cp.Vector{}},
		{"shallow_x_from_left", cp.Vector{X: -9}, 10, 10, cp.Vector{}, 10, 10, true, cp.Vector{X: -1}},
		{"shallow_y_from_above", cp.Vector{X: 1, Y: 8}, 10, 10, cp.Vector{}, 10, 10, true, cp.Vector{Y: 2}},
		{"corner_overlap_least_axis", cp.Vector{X: 8, Y: 7}, 10, 10, cp.Vector{}, 10, 10, true, cp.Vector{X: 2}},
		{"small_on_wide_floor", cp.Vector{Y: 9}, 4, 4, cp.Vector{}, 100, 16, true, cp.Vector{Y: 1}},
		{"large_over_small_fallback", cp.Vector{Y: 10}, 100, 10, cp.Vector{}, 4, 12, true, cp.Vector{Y: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BoxBox(tc.p1, tc.w1, tc.h1, tc.p2, tc.w2, tc.h2)
			if got.Colliding != tc.colliding {
				t.Fatalf("expected colliding=%v, got %v", tc.colliding, got.Colliding)
			}
			if !vecNear(got.Push, tc.push, 1e-9) {
				t.Fatalf("expected push %v, got %v", tc.push, got.Push)
			}
		})
	}
}

func TestNonOverlappingNeverCollide(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	shapes := []component.Shape{component.Circle(3), component.Box(6, 4), component.Circle(0.5), component.Box(1, 9)}
	for i := 0; i < 2000; i++ {
		a := shapes[rng.Intn(len(shapes))]
		b := shapes[rng.Intn(len(shapes))]
		pa := cp.Vector{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}
		pb := cp.Vector{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}

		// separated bounding boxes guarantee no overlap for either shape kind
		if a.BB(pa).Intersects(b.BB(pb)) {
			continue
		}
		if got := Collide(a, pa, b, pb); got.Colliding {
			t.Fatalf("case %d: %v at %v and %v at %v reported collision %+v", i, a.Kind, pa, b.Kind, pb, got)
		}
	}
}

func TestCollideDispatch(t *testing.T) {
	circle := component.Circle(2)
	box := component.Box(4, 4)
	cases := []struct {
		name string
		a    component.Shape
		pa   cp.Vector
		b    component.Shape
		pb   cp.Vector
		want Contact
	}{
		{"circle_circle", circle, cp.Vector{X: 3}, circle, cp.Vector{}, CircleCircle(cp.Vector{X: 3}, 2, cp.Vector{}, 2)},
		{"circle_box", circle, cp.Vector{X: 3}, box, cp.Vector{}, CircleBox(cp.Vector{X: 3}, 2, cp.Vector{}, 4, 4)},
		{"box_circle", box, cp.Vector{X: 3}, circle, cp.Vector{}, BoxCircle(cp.Vector{X: 3}, 4, 4, cp.Vector{}, 2)},
		{"box_box", box, cp.Vector{X: 3}, box, cp.Vector{}, BoxBox(cp.Vector{X: 3}, 4, 4, cp.Vector{}, 4, 4)},
		{"invalid_shape", component.Shape{}, cp.Vector{}, box, cp.Vector{}, Contact{}},
		{"zero_radius", component.Circle(0), cp.Vector{}, box, cp.Vector{}, Contact{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Collide(tc.a, tc.pa, tc.b, tc.pb)
			if got.Colliding != tc.want.Colliding || !vecNear(got.Push, tc.want.Push, 1e-12) {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
