package noise

import "stimgen/internal/core"

const (
	// ExponentPink gives an amplitude spectrum falling as 1/|ω|.
	ExponentPink = 1.0
	// ExponentBrown gives an amplitude spectrum falling as 1/|ω|².
	ExponentBrown = 2.0
)

// Spectral draws white fields and shapes them into coloured noise. Output
// samples are normalized to [0, 1].
type Spectral struct {
	w, h     int
	exponent float64
	white    *White
	mask     [][]float64 // unshifted, aligned with the raw FFT layout
}

// NewSpectral returns a generator whose amplitude spectrum falls as
// 1/|ω|^exponent.
func NewSpectral(w, h int, exponent float64, rng *core.RNG) *Spectral {
	white := NewWhite(w, h, rng)
	size := white.Size()
	return &Spectral{
		w:        size.W,
		h:        size.H,
		exponent: exponent,
		white:    white,
		mask:     shift2(Weights(size.W, size.H, exponent), true),
	}
}

// NewPink returns a pink (1/|ω|) noise generator.
func NewPink(w, h int, rng *core.RNG) *Spectral { return NewSpectral(w, h, ExponentPink, rng) }

// NewBrown returns a brown (1/|ω|²) noise generator.
func NewBrown(w, h int, rng *core.RNG) *Spectral { return NewSpectral(w, h, ExponentBrown, rng) }

// Size reports the field dimensions.
func (s *Spectral) Size() core.Size { return core.Size{W: s.w, H: s.h} }

// Draw returns a fresh shaped field in [0, 1].
func (s *Spectral) Draw() *core.Frame { return s.Shape(s.white.Draw()) }

// Shape applies the spectral mask to an arbitrary white field of the
// generator's size.
func (s *Spectral) Shape(white *core.Frame) *core.Frame { return shape(white, s.mask) }

// Parameters exposes the generator settings.
func (s *Spectral) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Spectral noise",
		Params: []core.Parameter{
			core.IntParam("w", "Width", s.w),
			core.IntParam("h", "Height", s.h),
			core.FloatParam("exponent", "Exponent", s.exponent),
		},
	}}}
}
