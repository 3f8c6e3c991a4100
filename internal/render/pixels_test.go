package render

import (
	"image/color"
	"testing"

	"stimgen/internal/core"
)

func TestLevelClips(t *testing.T) {
	cases := map[float64]uint8{-0.5: 0, 0: 0, 0.5: 128, 1: 255, 3: 255}
	for in, want := range cases {
		if got := Level(in); got != want {
			t.Fatalf("Level(%v)=%d want %d", in, got, want)
		}
	}
}

func TestToGray(t *testing.T) {
	f := core.NewFrame(3, 2)
	copy(f.Data, []float64{0, 0.5, 1, 1, 0.5, 0})
	img := ToGray(f)
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if img.GrayAt(2, 0).Y != 255 || img.GrayAt(2, 1).Y != 0 || img.GrayAt(1, 1).Y != 128 {
		t.Fatalf("pixels %v", img.Pix)
	}
}

func TestFillGrayRGBA(t *testing.T) {
	f := core.NewFrame(2, 1)
	copy(f.Data, []float64{0, 1})
	buf := make([]byte, 8)
	FillGrayRGBA(buf, f)
	want := []byte{0, 0, 0, 255, 255, 255, 255, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf %v want %v", buf, want)
		}
	}
}

func TestFillPaletteRGBA(t *testing.T) {
	f := core.NewFrame(2, 1)
	copy(f.Data, []float64{0, 1})
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}, {B: 3, A: 255}}
	buf := make([]byte, 8)
	FillPaletteRGBA(buf, f, palette)
	if buf[0] != 1 || buf[6] != 3 {
		t.Fatalf("palette mapping %v", buf)
	}
	FillPaletteRGBA(buf, f, nil)
	for _, b := range buf {
		if b != 0 {
			t.Fatalf("empty palette should clear, got %v", buf)
		}
	}
	if p := HeatPalette(8); len(p) != 8 || p[0].R != 0 || p[7].G != 255 {
		t.Fatalf("heat palette %v", p)
	}
}
