// Package render converts [0, 1] luminance frames into pixel buffers.
package render

import (
	"image"
	"image/color"

	"stimgen/internal/core"
)

// Level maps a [0, 1] sample to an 8-bit intensity, clipping out-of-range
// values.
func Level(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ToGray converts f into an 8-bit grayscale image.
func ToGray(f *core.Frame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+f.W]
		for x, v := range f.Row(y) {
			row[x] = Level(v)
		}
	}
	return img
}

// FillGrayRGBA writes f as opaque gray RGBA pixels into buf.
func FillGrayRGBA(buf []byte, f *core.Frame) {
	for i, v := range f.Data {
		l := Level(v)
		base := i * 4
		buf[base+0] = l
		buf[base+1] = l
		buf[base+2] = l
		buf[base+3] = 0xff
	}
}

// FillPaletteRGBA maps each sample of f onto palette, spreading [0, 1]
// evenly over the entries. When the palette is empty the buffer is cleared
// to transparent black.
func FillPaletteRGBA(buf []byte, f *core.Frame, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(f.Data)*4])
		return
	}

	last := len(palette) - 1
	for i, v := range f.Data {
		idx := int(Level(v)) * last / 255
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// HeatPalette runs from dark blue through red to yellow.
func HeatPalette(n int) []color.RGBA {
	n = max(n, 2)
	out := make([]color.RGBA, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = color.RGBA{
			R: Level(2 * t),
			G: Level(2*t - 1),
			B: Level(0.5 - t),
			A: 0xff,
		}
	}
	return out
}
