//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"stimgen/internal/core"
)

// HUD renders the live parameters of a source to the right of the view.
type HUD struct {
	src        any
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
}

// NewHUD constructs a HUD for src. Sources that do not expose parameters
// show only the key help.
func NewHUD(src any, width int) *HUD {
	return &HUD{src: src, width: max(width, 0)}
}

// Update refreshes the cached parameter snapshot.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	h.snapshot = core.SnapshotOf(h.src)
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawParameters()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawParameters() {
	face := basicfont.Face7x13
	header := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	label := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dim := color.RGBA{R: 160, G: 160, B: 170, A: 255}

	y := panelPadding + headerBaseline
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, header)
		y += lineHeight
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label, face, panelPadding, y, label)
			w := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-w, y, label)
			y += lineHeight
		}
		y += groupGap
	}
	for _, line := range keyHelp {
		text.Draw(h.panel, line, face, panelPadding, y, dim)
		y += lineHeight
	}
}

var keyHelp = []string{
	"space pause  n step",
	"+/- tick rate",
	"o overlay  h panel  q quit",
}

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 8
	headerBaseline = 18
)
