//go:build ebiten

package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"stimgen/internal/core"
	"stimgen/internal/render"
	"stimgen/internal/ui"
)

// Game adapts a frame source to the ebiten.Game interface.
type Game struct {
	src     core.Source
	painter *render.FramePainter
	overlay *ui.Overlay
	hud     *ui.HUD

	frame *core.Frame
	cfg   Config
	clock *core.FixedStep

	paused   bool
	tickOnce bool
	showHUD  bool
}

// New constructs a Game pulling frames from src. overlay may be nil.
func New(src core.Source, cfg Config, overlay *ui.Overlay) *Game {
	size := src.Size()
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &Game{
		src:     src,
		painter: render.NewFramePainter(size.W, size.H),
		overlay: overlay,
		hud:     ui.NewHUD(src, cfg.HUDWidth),
		frame:   src.Next(0),
		cfg:     cfg,
		clock:   core.NewFixedStep(cfg.TPS),
		showHUD: cfg.HUDWidth > 0,
	}
}

// Update handles input and advances the source at the configured tick rate,
// independently of the display refresh rate.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) && g.overlay != nil {
		g.overlay.Toggle()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.cfg.TPS++
		g.clock.SetTPS(g.cfg.TPS)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.cfg.TPS = max(g.cfg.TPS-1, 1)
		g.clock.SetTPS(g.cfg.TPS)
	}

	step := g.clock.ShouldStep()
	if (!g.paused && step) || g.tickOnce {
		dt := g.cfg.DT()
		g.frame = g.src.Next(dt)
		if g.overlay != nil {
			g.overlay.Update(dt)
		}
		g.tickOnce = false
	}
	if g.showHUD {
		g.hud.Update()
	}
	return nil
}

// Draw renders the current frame, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Gray(screen, g.frame, g.cfg.Scale)
	if g.overlay != nil {
		g.overlay.Draw(screen, g.cfg.Scale)
	}
	if g.showHUD {
		size := g.src.Size()
		g.hud.Draw(screen, size.W*g.cfg.Scale, size.H*g.cfg.Scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.src.Size()
	w := s.W * g.cfg.Scale
	if g.showHUD {
		w += g.cfg.HUDWidth
	}
	return w, s.H * g.cfg.Scale
}
