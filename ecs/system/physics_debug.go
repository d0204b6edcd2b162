package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/quadtree"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugVelocityScale  = 0.25
)

// DebugRenderSystem outlines colliders, velocities and, when the physics
// system uses the quadtree broad phase, the tree's cells.
type DebugRenderSystem struct {
	physics  *PhysicsSystem
	selected ecs.Entity
	Cells    bool
	HUD      bool
}

func NewDebugRenderSystem(ps *PhysicsSystem) *DebugRenderSystem {
	return &DebugRenderSystem{physics: ps, Cells: true, HUD: true}
}

// Update is a no-op; the system only draws.
func (d *DebugRenderSystem) Update(w *ecs.World) {}

func (d *DebugRenderSystem) Select(e ecs.Entity) {
	d.selected = e
}

func (d *DebugRenderSystem) Selected() ecs.Entity {
	return d.selected
}

func (d *DebugRenderSystem) Draw(w *ecs.World, screen *ebiten.Image, camX, camY, zoom float64) {
	if d == nil || w == nil || screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	drawer := &physicsDebugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}

	if qb, ok := d.physics.Broadphase().(*QuadtreeBroadphase); ok && d.Cells {
		qb.Tree().Walk(func(c quadtree.Cell) {
			drawer.drawBB(cp.BB{L: c.Origin.X, B: c.Origin.Y, R: c.Origin.X + c.Width, T: c.Origin.Y + c.Width}, colornames.Darkslategray)
		})
	}

	bodies := 0
	ecs.ForEach2(w, component.ColliderComponent, component.TransformComponent, func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		bodies++
		col := color.Color(colornames.Lime)
		switch {
		case e == d.selected:
			col = colornames.Orange
		case c.Static:
			col = colornames.Gray
		}
		pos := t.Position()
		switch c.Shape.Kind {
		case component.ShapeCircle:
			drawer.drawCircle(pos, c.Shape.Radius, col)
		case component.ShapeBox:
			drawer.drawBB(c.Shape.BB(pos), col)
		}
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent); ok {
			drawer.drawLine(pos, pos.Add(rb.Velocity.Mult(debugVelocityScale)), colornames.Yellow)
		}
	})

	if !d.HUD {
		return
	}
	settings := d.physics.Settings()
	text := fmt.Sprintf("Bodies: %d\nStep: %d\nBroadphase: %s\nDown: (%g, %g)", bodies, d.physics.Steps(), settings.Broadphase, settings.Down.X, settings.Down.Y)
	if w.IsAlive(d.selected) {
		text += "\nSelected: " + describeEntity(w, d.selected)
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func describeEntity(w *ecs.World, e ecs.Entity) string {
	label := e.String()
	if n, ok := ecs.Get(w, e, component.NameComponent); ok && n.Value != "" {
		label = n.Value
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		label += fmt.Sprintf(" pos=(%.1f, %.1f)", t.X, t.Y)
	}
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent); ok {
		label += fmt.Sprintf(" vel=(%.1f, %.1f)", rb.Velocity.X, rb.Velocity.Y)
	}
	return label
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, col color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, col)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, col color.Color) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], col)
	}
}

func (d *physicsDebugDrawer) drawBB(bb cp.BB, col color.Color) {
	d.drawPolygon([]cp.Vector{
		{X: bb.L, Y: bb.B},
		{X: bb.R, Y: bb.B},
		{X: bb.R, Y: bb.T},
		{X: bb.L, Y: bb.T},
	}, col)
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, col)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}
