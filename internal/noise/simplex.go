package noise

import (
	"github.com/ojrac/opensimplex-go"

	"stimgen/internal/core"
)

// DefaultSimplexScale is the sampling step in noise space per pixel.
const DefaultSimplexScale = 0.05

// Simplex samples a 3D simplex field at a random depth on every draw, so
// successive fields are independent slices. Output samples are in [0, 1].
type Simplex struct {
	w, h  int
	Scale float64
	noise opensimplex.Noise
	rng   *core.RNG
}

// NewSimplex seeds the simplex field from rng.
func NewSimplex(w, h int, rng *core.RNG) *Simplex {
	f := core.NewFrame(w, h)
	return &Simplex{
		w:     f.W,
		h:     f.H,
		Scale: DefaultSimplexScale,
		noise: opensimplex.New(rng.Int64()),
		rng:   rng,
	}
}

// Size reports the field dimensions.
func (s *Simplex) Size() core.Size { return core.Size{W: s.w, H: s.h} }

// Draw returns a fresh field.
func (s *Simplex) Draw() *core.Frame {
	z := s.rng.Uniform(0, 1e4)
	f := core.NewFrame(s.w, s.h)
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			v := s.noise.Eval3(float64(x)*s.Scale, float64(y)*s.Scale, z)
			f.Data[y*s.w+x] = (v + 1) / 2
		}
	}
	f.Clip(0, 1)
	return f
}
