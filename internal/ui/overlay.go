//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"stimgen/internal/core"
	"stimgen/internal/heatmap"
	"stimgen/internal/render"
)

// overlayAlpha is the opacity of the heat map drawn over the scene.
const overlayAlpha = 0.45

// Overlay draws a detection heat map and the true patch outline on top of
// the scene.
type Overlay struct {
	heat    core.Source
	target  func() heatmap.Window
	painter *render.FramePainter
	palette []color.RGBA
	pixel   *ebiten.Image

	frame *core.Frame
	show  bool
}

// NewOverlay builds an overlay for heat, a map the size of the scene.
// target may be nil.
func NewOverlay(heat core.Source, target func() heatmap.Window) *Overlay {
	size := heat.Size()
	o := &Overlay{
		heat:    heat,
		target:  target,
		painter: render.NewFramePainter(size.W, size.H),
		palette: render.HeatPalette(64),
		pixel:   ebiten.NewImage(1, 1),
		show:    true,
	}
	o.pixel.Fill(color.White)
	return o
}

// Toggle shows or hides the overlay.
func (o *Overlay) Toggle() { o.show = !o.show }

// Update advances the heat map by dt. The map is always advanced so its
// internal state stays in step with the scene.
func (o *Overlay) Update(dt float64) {
	o.frame = o.heat.Next(dt)
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image, scale int) {
	if !o.show || o.frame == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	o.painter.Palette(screen, o.frame, o.palette, scale, overlayAlpha)
	if o.target != nil {
		o.drawRect(screen, o.target(), scale, color.RGBA{R: 80, G: 220, B: 120, A: 255})
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, w heatmap.Window, scale int, col color.RGBA) {
	x1, y1 := float64(w.X1*scale), float64(w.Y1*scale)
	x2, y2 := float64(w.X2*scale), float64(w.Y2*scale)
	o.fill(screen, x1, y1, x2-x1, 1, col)
	o.fill(screen, x1, y2-1, x2-x1, 1, col)
	o.fill(screen, x1, y1, 1, y2-y1, col)
	o.fill(screen, x2-1, y1, 1, y2-y1, col)
}

func (o *Overlay) fill(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
