package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rigid2d/common"
)

func main() {
	scene := flag.String("scene", "falling_circle", "scene name in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "draw quadtree cells and the body HUD")
	watch := flag.Bool("watch", false, "reload the scene when prefabs/ changes")
	broadphase := flag.String("broadphase", "", "override the scene broadphase: naive or quadtree")
	zoom := flag.Float64("zoom", 1, "world to screen scale")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("rigid2d")
	ebiten.SetTPS(ebiten.DefaultTPS)

	game, err := NewGame(Options{
		Scene:      *scene,
		Debug:      *debug,
		Watch:      *watch,
		Broadphase: *broadphase,
		Zoom:       *zoom,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
