//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"stimgen/internal/app"
	"stimgen/internal/core"
	"stimgen/internal/experiment"
	"stimgen/internal/ui"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	exp := experiment.DefaultConfig()
	exp.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.Overlay != "" {
		exp.Methods = []string{cfg.Overlay}
	} else {
		exp.Methods = nil
	}
	p, err := experiment.Build(exp, core.NewRNG(exp.Seed))
	if err != nil {
		log.Fatal(err)
	}

	var overlay *ui.Overlay
	if len(p.Methods) > 0 {
		overlay = ui.NewOverlay(p.Methods[0].Map, p.Target)
	}
	game := app.New(p.Scene, *cfg, overlay)
	size := p.Scene.Size()

	ebiten.SetWindowTitle("stimview - " + exp.Noise + " / " + exp.PatchKind)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
