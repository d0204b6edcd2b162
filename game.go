package main

import (
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/ecs/entity"
	"github.com/milk9111/rigid2d/ecs/system"
	"github.com/milk9111/rigid2d/prefabs"
	"github.com/milk9111/rigid2d/quadtree"
	"golang.design/x/clipboard"
)

type Options struct {
	Scene      string
	Debug      bool
	Watch      bool
	Broadphase string
	Zoom       float64
}

type Game struct {
	opts Options

	world     *ecs.World
	scene     prefabs.SceneSpec
	physics   *system.PhysicsSystem
	scripts   *system.ForceScriptSystem
	scheduler *ecs.Scheduler
	debugDraw *system.DebugRenderSystem

	paused        bool
	stepOnce      bool
	reloadPending bool
	pauseUI       *ebitenui.UI

	watcher      *prefabs.Watcher
	clipboardOK  bool
	collisions   int
	lastContacts int
	status       string
}

func NewGame(opts Options) (*Game, error) {
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	g := &Game{
		opts:    opts,
		scripts: system.NewForceScriptSystem(nil),
	}
	g.pauseUI = NewPauseUI(g)

	if err := g.reload(); err != nil {
		return nil, err
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.SceneDir(), prefabs.SceneDir()+"/scripts")
		if err != nil {
			log.Printf("Game: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Game: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	return g, nil
}

// reload rebuilds the world from the scene file. On failure the running
// scene is kept.
func (g *Game) reload() error {
	world := ecs.NewWorld()
	spec, _, err := entity.LoadScene(world, g.opts.Scene)
	if err != nil {
		return fmt.Errorf("load scene %q: %w", g.opts.Scene, err)
	}
	settings, err := entity.Settings(spec.Physics)
	if err != nil {
		return fmt.Errorf("scene %q: %w", g.opts.Scene, err)
	}
	if g.opts.Broadphase != "" {
		kind, err := system.ParseBroadphase(g.opts.Broadphase)
		if err != nil {
			return err
		}
		settings.Broadphase = kind
	}

	g.world = world
	g.scene = spec
	if g.physics != nil && g.physics.Settings() == settings.WithDefaults() {
		g.physics.Reset()
	} else {
		g.physics = system.NewPhysicsSystem(settings)
	}
	g.scripts.Invalidate()
	g.scheduler = ecs.NewScheduler(g.scripts, g.physics)

	g.debugDraw = system.NewDebugRenderSystem(g.physics)
	g.debugDraw.Cells = g.opts.Debug
	g.debugDraw.HUD = g.opts.Debug
	g.world.AddSystem(g.debugDraw)

	g.collisions = 0
	g.status = fmt.Sprintf("loaded %s", spec.Name)
	log.Printf("Game: loaded scene %q (%d entities, %s broadphase)", spec.Name, len(spec.Entities), settings.Broadphase)
	return nil
}

func (g *Game) Update() error {
	if changed, err := g.watcher.Changed(); err != nil {
		log.Printf("Game: watch error: %v", err)
	} else if changed {
		g.reloadPending = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.paused = true
		g.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reloadPending = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.paused {
		x, y := ebiten.CursorPosition()
		g.selectNearest(cp.Vector{X: float64(x) / g.opts.Zoom, Y: float64(y) / g.opts.Zoom})
	}

	if g.reloadPending {
		g.reloadPending = false
		if err := g.reload(); err != nil {
			log.Printf("Game: reload failed: %v", err)
			g.status = "reload failed"
		}
	}

	if g.paused {
		g.pauseUI.Update()
		if !g.stepOnce {
			return nil
		}
		g.stepOnce = false
	}

	g.scheduler.Update(g.world)
	g.drainEvents()
	return nil
}

func (g *Game) drainEvents() {
	contacts := 0
	for _, evt := range g.world.Events().Drain() {
		if evt.Type == ecs.EventCollision {
			contacts++
		}
	}
	g.lastContacts = contacts
	g.collisions += contacts
}

func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	snapshot := entity.SnapshotScene(g.world, g.scene.Name, g.physics.Settings())
	data, err := prefabs.MarshalScene(snapshot)
	if err != nil {
		log.Printf("Game: snapshot: %v", err)
		g.status = "snapshot failed"
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = fmt.Sprintf("copied %d entities", len(snapshot.Entities))
}

func (g *Game) selectNearest(p cp.Vector) {
	if qb, ok := g.physics.Broadphase().(*system.QuadtreeBroadphase); ok {
		if e, ok := qb.Nearest(p); ok {
			g.debugDraw.Select(e)
			return
		}
	}

	// the naive broad phase keeps no index, so build one for the lookup
	qs := g.physics.Settings().Quadtree
	tree := quadtree.New[ecs.Entity](qs.Origin, qs.Width)
	ecs.ForEach2(g.world, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Collider, t *component.Transform) {
		_ = tree.Insert(quadtree.NewObject(e, *t))
	})
	if obj, ok := tree.FindNearest(p); ok {
		g.debugDraw.Select(obj.Payload)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen, 0, 0, g.opts.Zoom)

	status := fmt.Sprintf("%s    FPS: %.2f    contacts: %d (%d total)", g.status, ebiten.ActualFPS(), g.lastContacts, g.collisions)
	ebitenutil.DebugPrintAt(screen, status, 10, common.BaseHeight-20)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
