package system

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/physics"
)

func spawn(t *testing.T, w *ecs.World, x, y float64, shape component.Shape, static bool, rb *component.RigidBody) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	tr := component.NewTransform(x, y)
	if err := ecs.Add(w, e, component.TransformComponent, &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent, &component.Collider{Shape: shape, Static: static}); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	if rb != nil {
		if err := ecs.Add(w, e, component.RigidBodyComponent, rb); err != nil {
			t.Fatalf("add rigid body: %v", err)
		}
	}
	return e
}

func body(mass float64, v cp.Vector, gravity float64) *component.RigidBody {
	rb := component.NewRigidBody(mass)
	rb.Velocity = v
	rb.GravityScale = gravity
	return &rb
}

func collisionEvents(w *ecs.World) []ecs.CollisionEvent {
	var out []ecs.CollisionEvent
	for _, evt := range w.Events().Drain() {
		if evt.Type == ecs.EventCollision {
			out = append(out, evt.Data.(ecs.CollisionEvent))
		}
	}
	return out
}

func TestParseBroadphase(t *testing.T) {
	cases := []struct {
		in      string
		want    BroadphaseKind
		wantErr bool
	}{
		{"", BroadphaseNaive, false},
		{"naive", BroadphaseNaive, false},
		{" Quadtree ", BroadphaseQuadtree, false},
		{"grid", "", true},
	}
	for _, tc := range cases {
		got, err := ParseBroadphase(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownBroadphase) {
				t.Fatalf("%q: expected ErrUnknownBroadphase, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %q, got %q (%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestSettingsDefaults(t *testing.T) {
	ps := NewPhysicsSystem(Settings{})
	s := ps.Settings()
	if s.FixedDT != common.FixedDT {
		t.Fatalf("expected fixed dt %v, got %v", common.FixedDT, s.FixedDT)
	}
	if s.Down != physics.DefaultDown {
		t.Fatalf("expected default down, got %v", s.Down)
	}
	if _, ok := ps.Broadphase().(*NaiveBroadphase); !ok {
		t.Fatalf("expected naive broadphase, got %T", ps.Broadphase())
	}
}

func TestFallingCircleSettlesOnStaticBox(t *testing.T) {
	cases := []struct {
		name       string
		broadphase BroadphaseKind
	}{
		{"naive", BroadphaseNaive},
		{"quadtree", BroadphaseQuadtree},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			circle := spawn(t, w, 0, 80, component.Circle(5), false, body(1, cp.Vector{}, common.Gravity))
			box := spawn(t, w, 0, 90, component.Box(1000, 10), true, nil)

			ps := NewPhysicsSystem(Settings{
				Down:       cp.Vector{Y: 1},
				Broadphase: tc.broadphase,
				Quadtree:   QuadtreeSettings{Origin: cp.Vector{X: -600, Y: -600}, Width: 1200},
			})

			const boxTop = 85.0
			for i := 0; i < 600; i++ {
				ps.Step(w, common.FixedDT)
				tr, _ := ecs.Get(w, circle, component.TransformComponent)
				gap := boxTop - (tr.Y + 5)
				if math.Abs(gap) > 0.5 {
					t.Fatalf("step %d: expected circle to rest on the box, gap %v", i, gap)
				}
			}
			boxT, _ := ecs.Get(w, box, component.TransformComponent)
			if boxT.X != 0 || boxT.Y != 90 {
				t.Fatalf("expected static box untouched, got (%v, %v)", boxT.X, boxT.Y)
			}
		})
	}
}

func TestStepSwapsHeadOnCircles(t *testing.T) {
	w := ecs.NewWorld()
	a := spawn(t, w, -1.5, 0, component.Circle(2), false, body(1, cp.Vector{X: 4}, 0))
	b := spawn(t, w, 1.5, 0, component.Circle(2), false, body(1, cp.Vector{X: -4}, 0))

	NewPhysicsSystem(DefaultSettings()).Step(w, common.FixedDT)

	events := collisionEvents(w)
	if len(events) != 1 {
		t.Fatalf("expected 1 collision event, got %d", len(events))
	}
	if evt := events[0]; evt.A != a || evt.B != b || evt.Kind != ecs.CollisionEventDynamic {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt := events[0]; evt.Push.X >= 0 {
		t.Fatalf("expected push toward a (negative x), got %v", evt.Push)
	}

	rbA, _ := ecs.Get(w, a, component.RigidBodyComponent)
	rbB, _ := ecs.Get(w, b, component.RigidBodyComponent)
	if !common.NearlyEqual(rbA.Velocity.X, -4, 1e-9) || !common.NearlyEqual(rbB.Velocity.X, 4, 1e-9) {
		t.Fatalf("expected swapped velocities, got %v and %v", rbA.Velocity, rbB.Velocity)
	}
}

func TestStaticBodyIsNotIntegrated(t *testing.T) {
	w := ecs.NewWorld()
	e := spawn(t, w, 10, 10, component.Box(4, 4), true, body(1, cp.Vector{X: 3}, common.Gravity))

	ps := NewPhysicsSystem(DefaultSettings())
	for i := 0; i < 10; i++ {
		ps.Update(w)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent)
	if tr.X != 10 || tr.Y != 10 {
		t.Fatalf("expected static body to stay at (10,10), got (%v, %v)", tr.X, tr.Y)
	}
	if ps.Steps() != 10 {
		t.Fatalf("expected 10 steps, got %d", ps.Steps())
	}
}

func TestColliderWithoutRigidBodyIsImmovable(t *testing.T) {
	w := ecs.NewWorld()
	wall := spawn(t, w, 0, 0, component.Box(10, 10), false, nil)
	ball := spawn(t, w, 6, 0, component.Circle(2), false, body(1, cp.Vector{X: -1}, 0))

	NewPhysicsSystem(DefaultSettings()).Step(w, common.FixedDT)

	events := collisionEvents(w)
	if len(events) != 1 || events[0].Kind != ecs.CollisionEventStatic {
		t.Fatalf("expected one static collision, got %+v", events)
	}
	wallT, _ := ecs.Get(w, wall, component.TransformComponent)
	if wallT.X != 0 || wallT.Y != 0 {
		t.Fatalf("expected wall untouched, got (%v, %v)", wallT.X, wallT.Y)
	}
	ballT, _ := ecs.Get(w, ball, component.TransformComponent)
	if ballT.X < 7-1e-9 {
		t.Fatalf("expected ball pushed out to x>=7, got %v", ballT.X)
	}
}

func TestMissingTransformIsReported(t *testing.T) {
	w := ecs.NewWorld()
	loose := w.CreateEntity()
	rb := component.NewRigidBody(1)
	if err := ecs.Add(w, loose, component.RigidBodyComponent, &rb); err != nil {
		t.Fatalf("add rigid body: %v", err)
	}
	ghost := w.CreateEntity()
	if err := ecs.Add(w, ghost, component.ColliderComponent, &component.Collider{Shape: component.Circle(1), Static: true}); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	spawn(t, w, 0, 0, component.Circle(1), false, body(1, cp.Vector{}, 0))

	NewPhysicsSystem(DefaultSettings()).Step(w, common.FixedDT)

	got := map[ecs.Entity]string{}
	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventMissingComponent {
			continue
		}
		m := evt.Data.(ecs.MissingComponentEvent)
		if m.System != physicsSystemName {
			t.Fatalf("expected system %q, got %q", physicsSystemName, m.System)
		}
		got[m.Entity] = m.Component
	}
	want := map[ecs.Entity]string{loose: "transform", ghost: "transform"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected missing components %v, got %v", want, got)
	}
}

func randomShape(rng *rand.Rand) component.Shape {
	if rng.Intn(2) == 0 {
		return component.Circle(1 + rng.Float64()*6)
	}
	return component.Box(1+rng.Float64()*12, 1+rng.Float64()*12)
}

func TestQuadtreeCandidatesCoverCollidingPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := ecs.NewWorld()
	var bodies []Collidable
	for i := 0; i < 300; i++ {
		// a few centres land outside the indexed square
		x, y := rng.Float64()*220-10, rng.Float64()*220-10
		shape := randomShape(rng)
		tr := component.NewTransform(x, y)
		bodies = append(bodies, Collidable{
			Entity:    w.CreateEntity(),
			Transform: &tr,
			Collider:  &component.Collider{Shape: shape},
		})
	}

	qb := NewQuadtreeBroadphase(QuadtreeSettings{Width: 200, MaxLeafObjects: 3})
	qb.rebuild(bodies)
	candidates := map[[2]int]bool{}
	for i := range bodies {
		prev := i
		for _, j := range qb.candidates(bodies, i, i) {
			if j <= prev {
				t.Fatalf("collider %d: expected ascending candidates above %d, got %d", i, prev, j)
			}
			prev = j
			candidates[[2]int{i, j}] = true
		}
	}

	colliding := 0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if !physics.Collide(a.Collider.Shape, a.Transform.Position(), b.Collider.Shape, b.Transform.Position()).Colliding {
				continue
			}
			colliding++
			if !candidates[[2]int{i, j}] {
				t.Fatalf("colliding pair (%d, %d) missing from candidates", i, j)
			}
		}
	}
	if colliding == 0 {
		t.Fatal("expected the random scene to contain collisions")
	}
}

func TestQuadtreeBroadphaseMatchesNaive(t *testing.T) {
	build := func(t *testing.T) *ecs.World {
		w := ecs.NewWorld()
		for gx := 0; gx < 6; gx++ {
			for gy := 0; gy < 6; gy++ {
				x, y := 20+float64(gx)*40, 20+float64(gy)*40
				spawn(t, w, x, y, component.Circle(3), false, body(1, cp.Vector{X: 2}, 0))
				spawn(t, w, x+5, y+1, component.Box(4, 4), false, body(2, cp.Vector{X: -1}, 0))
			}
		}
		return w
	}

	naiveW, quadW := build(t), build(t)
	naive := NewPhysicsSystem(Settings{Broadphase: BroadphaseNaive})
	quad := NewPhysicsSystem(Settings{Broadphase: BroadphaseQuadtree, Quadtree: QuadtreeSettings{Width: 256}})

	naive.Step(naiveW, common.FixedDT)
	quad.Step(quadW, common.FixedDT)

	want, got := collisionEvents(naiveW), collisionEvents(quadW)
	if len(want) != 36 {
		t.Fatalf("expected 36 contacts from the naive scan, got %d", len(want))
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("quadtree events differ from naive:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestQuadtreeBroadphaseFollowsChainedPushes(t *testing.T) {
	// the post moves the first ball into the second one within the same step
	build := func(t *testing.T) *ecs.World {
		w := ecs.NewWorld()
		spawn(t, w, 50, 50, component.Circle(1), true, nil)
		spawn(t, w, 50.5, 50, component.Circle(1), false, body(1, cp.Vector{}, 0))
		spawn(t, w, 53.9, 50, component.Circle(1), false, body(1, cp.Vector{}, 0))
		return w
	}

	naiveW, quadW := build(t), build(t)
	NewPhysicsSystem(Settings{Broadphase: BroadphaseNaive}).Step(naiveW, common.FixedDT)
	NewPhysicsSystem(Settings{Broadphase: BroadphaseQuadtree, Quadtree: QuadtreeSettings{Width: 100}}).Step(quadW, common.FixedDT)

	want, got := collisionEvents(naiveW), collisionEvents(quadW)
	if len(want) != 2 || want[0].Kind != ecs.CollisionEventStatic || want[1].Kind != ecs.CollisionEventDynamic {
		t.Fatalf("expected a static then a dynamic contact from the naive scan, got %+v", want)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("quadtree events differ from naive:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestQuadtreeBroadphaseForgetsDestroyedStrays(t *testing.T) {
	w := ecs.NewWorld()
	stray := spawn(t, w, -20, 5, component.Circle(1), true, nil)
	spawn(t, w, 10, 10, component.Circle(1), true, nil)
	ps := NewPhysicsSystem(Settings{Broadphase: BroadphaseQuadtree, Quadtree: QuadtreeSettings{Width: 100}})
	qb := ps.Broadphase().(*QuadtreeBroadphase)

	ps.Step(w, common.FixedDT)
	if !qb.outside[stray] {
		t.Fatalf("expected %v to be reported outside the tree", stray)
	}

	w.DestroyEntity(stray)
	ps.Step(w, common.FixedDT)
	if len(qb.outside) != 0 {
		t.Fatalf("expected no colliders outside the tree, got %v", qb.outside)
	}
}

func TestResetClearsStepState(t *testing.T) {
	w := ecs.NewWorld()
	spawn(t, w, -20, 5, component.Circle(1), true, nil)
	spawn(t, w, 10, 10, component.Circle(1), true, nil)
	ps := NewPhysicsSystem(Settings{Broadphase: BroadphaseQuadtree, Quadtree: QuadtreeSettings{Width: 100}})
	qb := ps.Broadphase().(*QuadtreeBroadphase)

	ps.Step(w, common.FixedDT)
	ps.Step(w, common.FixedDT)
	if ps.Steps() != 2 || qb.Tree().Len() != 1 || len(qb.outside) != 1 {
		t.Fatalf("unexpected state before reset: steps=%d indexed=%d outside=%d", ps.Steps(), qb.Tree().Len(), len(qb.outside))
	}

	ps.Reset()
	if ps.Steps() != 0 || qb.Tree().Len() != 0 || len(qb.outside) != 0 {
		t.Fatalf("unexpected state after reset: steps=%d indexed=%d outside=%d", ps.Steps(), qb.Tree().Len(), len(qb.outside))
	}
}

func TestResolvePairRejectsSameEntity(t *testing.T) {
	w := ecs.NewWorld()
	e := spawn(t, w, 3, 4, component.Box(4, 4), false, body(1, cp.Vector{X: 1}, 0))
	bodies := NewPhysicsSystem(DefaultSettings()).collidables(w)

	if evt, ok := resolvePair(w, bodies[0], bodies[0]); ok {
		t.Fatalf("expected no contact of %v with itself, got %+v", e, evt)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	rb, _ := ecs.Get(w, e, component.RigidBodyComponent)
	if tr.X != 3 || tr.Y != 4 || rb.Velocity != (cp.Vector{X: 1}) {
		t.Fatalf("expected the body untouched, got (%v, %v) v=%v", tr.X, tr.Y, rb.Velocity)
	}
}

func TestQuadtreeBroadphaseNearest(t *testing.T) {
	w := ecs.NewWorld()
	spawn(t, w, 10, 10, component.Circle(1), true, nil)
	far := spawn(t, w, 90, 90, component.Circle(1), true, nil)
	ps := NewPhysicsSystem(Settings{Broadphase: BroadphaseQuadtree, Quadtree: QuadtreeSettings{Width: 100}})

	qb := ps.Broadphase().(*QuadtreeBroadphase)
	if _, ok := qb.Nearest(cp.Vector{X: 50, Y: 50}); ok {
		t.Fatal("expected no nearest before the first step")
	}

	ps.Step(w, common.FixedDT)
	got, ok := qb.Nearest(cp.Vector{X: 70, Y: 80})
	if !ok || got != far {
		t.Fatalf("expected nearest %v, got %v (%v)", far, got, ok)
	}
	if qb.Tree().Len() != 2 {
		t.Fatalf("expected 2 indexed colliders, got %d", qb.Tree().Len())
	}
}
