package system

import (
	"log"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/quadtree"
)

// QuadtreeBroadphase indexes collider centres in a quadtree rebuilt every
// step. Each collider queries a circle of its bounding radius plus the
// largest bounding radius in the scene, which covers every shape that can
// touch it. Colliders whose centre lies outside the tree are paired with
// everything.
//
// Pairs are visited in the same order as the naive scan. A collider moved
// by an earlier resolution in the step is no longer where the tree put it,
// so it is tested directly until the next rebuild.
type QuadtreeBroadphase struct {
	settings QuadtreeSettings
	tree     *quadtree.Tree[ecs.Entity]
	outside  map[ecs.Entity]bool

	index     map[ecs.Entity]int
	indexed   []cp.Vector
	moved     []bool
	movedList []int
	strays    []int
	maxRadius float64
}

func NewQuadtreeBroadphase(settings QuadtreeSettings) *QuadtreeBroadphase {
	return &QuadtreeBroadphase{
		settings: settings,
		tree:     quadtree.New[ecs.Entity](settings.Origin, settings.Width, settings.options()...),
		outside:  make(map[ecs.Entity]bool),
	}
}

// Tree returns the index built by the last Resolve.
func (b *QuadtreeBroadphase) Tree() *quadtree.Tree[ecs.Entity] {
	if b == nil {
		return nil
	}
	return b.tree
}

// Nearest returns the collider whose centre was closest to p at the last
// rebuild.
func (b *QuadtreeBroadphase) Nearest(p cp.Vector) (ecs.Entity, bool) {
	if b == nil || b.tree == nil {
		return 0, false
	}
	obj, ok := b.tree.FindNearest(p)
	if !ok {
		return 0, false
	}
	return obj.Payload, true
}

func (b *QuadtreeBroadphase) Resolve(w *ecs.World, bodies []Collidable) []ecs.CollisionEvent {
	b.rebuild(bodies)

	var events []ecs.CollisionEvent
	for i := range bodies {
		candidates := b.candidates(bodies, i, i)
		for k := 0; k < len(candidates); k++ {
			j := candidates[k]
			before := bodies[i].Transform.Position()
			evt, ok := resolvePair(w, bodies[i], bodies[j])
			if !ok {
				continue
			}
			events = append(events, evt)
			b.touch(bodies, i)
			b.touch(bodies, j)
			if bodies[i].Transform.Position() != before {
				candidates = b.candidates(bodies, i, j)
				k = -1
			}
		}
	}
	return events
}

func (b *QuadtreeBroadphase) reset() {
	b.tree.Clear()
	b.outside = make(map[ecs.Entity]bool)
}

// rebuild indexes every collider at its current position.
func (b *QuadtreeBroadphase) rebuild(bodies []Collidable) {
	b.tree.Clear()
	b.index = make(map[ecs.Entity]int, len(bodies))
	b.indexed = make([]cp.Vector, len(bodies))
	b.moved = make([]bool, len(bodies))
	b.movedList = b.movedList[:0]
	b.strays = b.strays[:0]
	b.maxRadius = 0

	outside := make(map[ecs.Entity]bool)
	objs := make([]quadtree.Object[ecs.Entity], 0, len(bodies))
	for i, body := range bodies {
		p := body.Transform.Position()
		b.index[body.Entity] = i
		b.indexed[i] = p
		b.maxRadius = max(b.maxRadius, body.Collider.Shape.BoundingRadius())
		if !b.tree.Contains(p) {
			b.strays = append(b.strays, i)
			outside[body.Entity] = true
			if !b.outside[body.Entity] {
				log.Printf("QuadtreeBroadphase: entity %v at (%g, %g) is outside %v; testing it against every collider", body.Entity, p.X, p.Y, b.tree.Bounds())
			}
			continue
		}
		objs = append(objs, quadtree.NewObject(body.Entity, *body.Transform))
	}
	b.outside = outside

	if err := b.tree.BulkInsert(objs); err != nil {
		panic("quadtree broadphase: rebuild: " + err.Error())
	}
}

// touch records that a collider left its indexed position.
func (b *QuadtreeBroadphase) touch(bodies []Collidable, i int) {
	if b.moved[i] || bodies[i].Transform.Position() == b.indexed[i] {
		return
	}
	b.moved[i] = true
	b.movedList = append(b.movedList, i)
}

// candidates returns, in ascending order, every j > after that may touch
// collider i at its current position.
func (b *QuadtreeBroadphase) candidates(bodies []Collidable, i, after int) []int {
	seen := make(map[int]struct{})
	var out []int
	add := func(j int) {
		if j <= after {
			return
		}
		if _, ok := seen[j]; ok {
			return
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}

	if b.outside[bodies[i].Entity] {
		for j := after + 1; j < len(bodies); j++ {
			add(j)
		}
		return out
	}

	r := bodies[i].Collider.Shape.BoundingRadius() + b.maxRadius
	for _, hit := range b.tree.QueryRange(quadtree.CircleRange(bodies[i].Transform.Position(), r)) {
		j := b.index[hit.Payload]
		if !b.moved[j] {
			add(j)
		}
	}
	for _, j := range b.strays {
		add(j)
	}
	for _, j := range b.movedList {
		add(j)
	}
	sort.Ints(out)
	return out
}
