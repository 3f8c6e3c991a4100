//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"stimgen/internal/core"
)

// FramePainter uploads frames into a reusable ebiten image.
type FramePainter struct {
	img  *ebiten.Image
	buf  []byte
	w, h int
}

// NewFramePainter allocates a painter for w x h frames.
func NewFramePainter(w, h int) *FramePainter {
	return &FramePainter{
		img: ebiten.NewImage(w, h),
		buf: make([]byte, w*h*4),
		w:   w,
		h:   h,
	}
}

// Gray paints f as grayscale onto screen, scaled by scale.
func (p *FramePainter) Gray(screen *ebiten.Image, f *core.Frame, scale int) {
	FillGrayRGBA(p.buf, f)
	p.blit(screen, scale, 1)
}

// Palette paints f through palette onto screen with the given opacity.
func (p *FramePainter) Palette(screen *ebiten.Image, f *core.Frame, palette []color.RGBA, scale int, alpha float64) {
	FillPaletteRGBA(p.buf, f, palette)
	p.blit(screen, scale, alpha)
}

func (p *FramePainter) blit(screen *ebiten.Image, scale int, alpha float64) {
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(p.img, op)
}
