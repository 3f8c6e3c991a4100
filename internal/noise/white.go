package noise

import "stimgen/internal/core"

// White draws independent uniform fields in [Lo, Hi).
type White struct {
	w, h   int
	Lo, Hi float64
	rng    *core.RNG
}

// NewWhite returns a white noise generator with samples in [-1, 1), the raw
// convention used as input to spectral shaping.
func NewWhite(w, h int, rng *core.RNG) *White {
	return NewWhiteRange(w, h, -1, 1, rng)
}

// NewWhiteRange returns a white noise generator with samples in [lo, hi).
func NewWhiteRange(w, h int, lo, hi float64, rng *core.RNG) *White {
	f := core.NewFrame(w, h)
	return &White{w: f.W, h: f.H, Lo: lo, Hi: hi, rng: rng}
}

// Size reports the field dimensions.
func (n *White) Size() core.Size { return core.Size{W: n.w, H: n.h} }

// Draw returns a fresh field.
func (n *White) Draw() *core.Frame {
	f := core.NewFrame(n.w, n.h)
	core.FillUniform(n.rng, f.Data, n.Lo, n.Hi)
	return f
}

// Parameters exposes the generator settings.
func (n *White) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "White noise",
		Params: []core.Parameter{
			core.FloatParam("lo", "Low", n.Lo),
			core.FloatParam("hi", "High", n.Hi),
		},
	}}}
}

// SingleColor returns the same constant field on every draw.
type SingleColor struct {
	frame *core.Frame
	Value float64
}

// NewSingleColor builds a constant field of the given value.
func NewSingleColor(w, h int, value float64) *SingleColor {
	f := core.NewFrame(w, h)
	f.Fill(value)
	return &SingleColor{frame: f, Value: value}
}

// Size reports the field dimensions.
func (s *SingleColor) Size() core.Size { return s.frame.Size() }

// Draw returns a copy of the constant field.
func (s *SingleColor) Draw() *core.Frame { return s.frame.Clone() }
