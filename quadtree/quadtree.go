// Package quadtree is a point quadtree over a square region. Nodes live in
// one arena slice and refer to their children by index.
package quadtree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
)

var ErrOutOfBounds = errors.New("quadtree: position out of bounds")

const (
	defaultMaxLeafObjects = 4

	// hardDepthLimit stops trees without a depth budget from splitting
	// forever on coincident points.
	hardDepthLimit = 64
)

// Quadrant indices of a branch's children.
const (
	UpperLeft = iota
	LowerLeft
	UpperRight
	LowerRight
)

type nodeKind uint8

const (
	nodeEmpty nodeKind = iota
	nodeLeaf
	nodeBranch
)

type node[T any] struct {
	origin    cp.Vector // lower-left corner
	width     float64
	depth     int
	depthLeft uint32
	bounded   bool
	kind      nodeKind
	objects   []Object[T]
	children  [4]int
}

func (n *node[T]) bb() cp.BB {
	return cp.BB{L: n.origin.X, B: n.origin.Y, R: n.origin.X + n.width, T: n.origin.Y + n.width}
}

func (n *node[T]) center() cp.Vector {
	h := n.width / 2
	return cp.Vector{X: n.origin.X + h, Y: n.origin.Y + h}
}

// quadrant picks the child for p. Ties go to the upper and left halves.
func (n *node[T]) quadrant(p cp.Vector) int {
	c := n.center()
	left := p.X <= c.X
	upper := p.Y >= c.Y
	switch {
	case left && upper:
		return UpperLeft
	case left:
		return LowerLeft
	case upper:
		return UpperRight
	default:
		return LowerRight
	}
}

type config struct {
	maxDepth       uint32
	bounded        bool
	maxLeafObjects int
}

type Option func(*config)

// WithMaxDepth limits how many times the root may be split. A leaf with no
// depth left keeps accepting objects past its capacity.
func WithMaxDepth(depth uint32) Option {
	return func(c *config) {
		c.maxDepth = depth
		c.bounded = true
	}
}

// WithMaxLeafObjects sets how many objects a leaf holds before splitting.
func WithMaxLeafObjects(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLeafObjects = n
		}
	}
}

// Tree is a quadtree rooted at a square of side width whose lower-left
// corner is origin. It owns the objects inserted into it.
type Tree[T any] struct {
	nodes  []node[T]
	cfg    config
	count  int
	origin cp.Vector
	width  float64
}

func New[T any](origin cp.Vector, width float64, opts ...Option) *Tree[T] {
	cfg := config{maxLeafObjects: defaultMaxLeafObjects}
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Tree[T]{cfg: cfg, origin: origin, width: width}
	t.Clear()
	return t
}

// Clear drops every object and node, keeping the root bounds.
func (t *Tree[T]) Clear() {
	t.nodes = append(t.nodes[:0], node[T]{
		origin:    t.origin,
		width:     t.width,
		depthLeft: t.cfg.maxDepth,
		bounded:   t.cfg.bounded,
	})
	t.count = 0
}

func (t *Tree[T]) Len() int {
	return t.count
}

// Bounds returns the root square.
func (t *Tree[T]) Bounds() cp.BB {
	return t.nodes[0].bb()
}

// Contains reports whether p lies inside the root square.
func (t *Tree[T]) Contains(p cp.Vector) bool {
	return t.Bounds().ContainsVect(p)
}

// Insert adds obj. A position outside the root bounds is a caller error:
// ErrOutOfBounds is returned and the tree is unchanged.
func (t *Tree[T]) Insert(obj Object[T]) error {
	p := obj.Position()
	if !t.Contains(p) {
		return fmt.Errorf("insert at (%g, %g): %w", p.X, p.Y, ErrOutOfBounds)
	}
	t.insertAt(0, obj)
	t.count++
	return nil
}

// BulkInsert checks every object against the root bounds before inserting
// any of them, so a failing call leaves the tree unchanged.
func (t *Tree[T]) BulkInsert(objs []Object[T]) error {
	for i, obj := range objs {
		if p := obj.Position(); !t.Contains(p) {
			return fmt.Errorf("bulk insert: object %d at (%g, %g): %w", i, p.X, p.Y, ErrOutOfBounds)
		}
	}
	// TODO: fan out per root quadrant once scenes are large enough for the
	// sequential rebuild to show up in frame time.
	for _, obj := range objs {
		t.insertAt(0, obj)
		t.count++
	}
	return nil
}

func (t *Tree[T]) insertAt(idx int, obj Object[T]) {
	p := obj.Position()
	for t.nodes[idx].kind == nodeBranch {
		idx = t.nodes[idx].children[t.nodes[idx].quadrant(p)]
	}
	n := &t.nodes[idx]
	if len(n.objects) < t.cfg.maxLeafObjects || !t.canSplit(n) {
		n.objects = append(n.objects, obj)
		n.kind = nodeLeaf
		return
	}
	t.split(idx, obj)
}

func (t *Tree[T]) canSplit(n *node[T]) bool {
	if n.bounded && n.depthLeft == 0 {
		return false
	}
	if n.depth >= hardDepthLimit {
		return false
	}
	return n.width/2 > 0
}

// split turns the leaf at idx into a branch and reinserts its objects
// together with obj.
func (t *Tree[T]) split(idx int, obj Object[T]) {
	parent := t.nodes[idx]
	half := parent.width / 2
	c := parent.center()
	origins := [4]cp.Vector{
		UpperLeft:  {X: parent.origin.X, Y: c.Y},
		LowerLeft:  {X: parent.origin.X, Y: parent.origin.Y},
		UpperRight: {X: c.X, Y: c.Y},
		LowerRight: {X: c.X, Y: parent.origin.Y},
	}

	var children [4]int
	for q, o := range origins {
		child := node[T]{
			origin:  o,
			width:   half,
			depth:   parent.depth + 1,
			bounded: parent.bounded,
		}
		if parent.bounded {
			child.depthLeft = parent.depthLeft - 1
		}
		children[q] = len(t.nodes)
		t.nodes = append(t.nodes, child)
	}

	objs := append(parent.objects, obj)
	t.nodes[idx].objects = nil
	t.nodes[idx].kind = nodeBranch
	t.nodes[idx].children = children
	for _, o := range objs {
		t.insertAt(idx, o)
	}
}

// QueryRange returns every object whose position lies inside r.
func (t *Tree[T]) QueryRange(r Range) []Object[T] {
	var out []Object[T]
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]
		if !r.overlaps(n.bb()) {
			continue
		}
		switch n.kind {
		case nodeLeaf:
			for _, obj := range n.objects {
				if r.Contains(obj.Position()) {
					out = append(out, obj)
				}
			}
		case nodeBranch:
			for q := len(n.children) - 1; q >= 0; q-- {
				stack = append(stack, n.children[q])
			}
		}
	}
	return out
}

// FindClosestObjectToPoint descends to the leaf whose quadrant holds p and
// returns the closest object in that leaf only. Sibling cells are not
// searched, so near a cell boundary the result may not be the global
// nearest, and an empty leaf yields false. Use FindNearest when the exact
// answer matters.
func (t *Tree[T]) FindClosestObjectToPoint(p cp.Vector) (Object[T], bool) {
	idx := 0
	for t.nodes[idx].kind == nodeBranch {
		idx = t.nodes[idx].children[t.nodes[idx].quadrant(p)]
	}
	return closestIn(t.nodes[idx].objects, p)
}

// FindNearest returns the object globally closest to p, visiting cells in
// order of distance and pruning those farther than the best found so far.
func (t *Tree[T]) FindNearest(p cp.Vector) (Object[T], bool) {
	var (
		best  Object[T]
		bestD = -1.0
	)
	var visit func(idx int)
	visit = func(idx int) {
		n := &t.nodes[idx]
		if bestD >= 0 && distanceSqToBB(p, n.bb()) > bestD {
			return
		}
		switch n.kind {
		case nodeLeaf:
			for _, obj := range n.objects {
				if d := obj.Position().Sub(p).LengthSq(); bestD < 0 || d < bestD {
					best, bestD = obj, d
				}
			}
		case nodeBranch:
			order := n.children
			sort.Slice(order[:], func(i, j int) bool {
				return distanceSqToBB(p, t.nodes[order[i]].bb()) < distanceSqToBB(p, t.nodes[order[j]].bb())
			})
			for _, c := range order {
				visit(c)
			}
		}
	}
	visit(0)
	return best, bestD >= 0
}

func closestIn[T any](objs []Object[T], p cp.Vector) (Object[T], bool) {
	var (
		best  Object[T]
		bestD float64
		found bool
	)
	for _, obj := range objs {
		d := obj.Position().Sub(p).LengthSq()
		if !found || d < bestD {
			best, bestD, found = obj, d, true
		}
	}
	return best, found
}

// Objects returns every stored object in tree order.
func (t *Tree[T]) Objects() []Object[T] {
	out := make([]Object[T], 0, t.count)
	t.Walk(func(c Cell) {
		out = append(out, t.nodes[c.index].objects...)
	})
	return out
}

// Cell describes one node for debug drawing.
type Cell struct {
	Origin  cp.Vector
	Width   float64
	Depth   int
	Leaf    bool
	Objects int
	index   int
}

// Walk visits every node depth-first, parents before children.
func (t *Tree[T]) Walk(fn func(Cell)) {
	if fn == nil {
		return
	}
	var visit func(idx int)
	visit = func(idx int) {
		n := &t.nodes[idx]
		fn(Cell{
			Origin:  n.origin,
			Width:   n.width,
			Depth:   n.depth,
			Leaf:    n.kind != nodeBranch,
			Objects: len(n.objects),
			index:   idx,
		})
		if n.kind == nodeBranch {
			for _, c := range n.children {
				visit(c)
			}
		}
	}
	visit(0)
}
