package noise

import (
	"errors"

	"stimgen/internal/core"
)

// Running produces a continuously drifting pink field. It keeps a white buffer
// two windows wide, slides a window across it as time passes and shapes only
// the visible window. Successive fields are partially correlated rather than
// independent. Output samples are normalized to [0, 1].
type Running struct {
	w, h    int
	margin  int
	span    int
	period  float64
	elapsed float64

	white *White
	buf   *core.Frame
	mask  [][]float64
	frame *core.Frame
}

// NewRunning returns a running pink generator that traverses one buffer half
// per period.
func NewRunning(w, h int, period float64, rng *core.RNG) (*Running, error) {
	if period <= 0 {
		return nil, errors.New("running noise period must be positive")
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	size := core.Size{W: w, H: h}
	margin := size.W / 20
	span := size.W + 2*margin
	r := &Running{
		w:      size.W,
		h:      size.H,
		margin: margin,
		span:   span,
		period: period,
		white:  NewWhite(span, size.H, rng),
		buf:    core.NewFrame(2*span, size.H),
		mask:   shift2(Weights(span, size.H, ExponentPink), true),
	}
	r.paste(0, r.white.Draw())
	r.paste(span, r.white.Draw())
	return r, nil
}

func (r *Running) paste(x0 int, src *core.Frame) {
	for y := 0; y < r.h; y++ {
		copy(r.buf.Data[y*r.buf.W+x0:y*r.buf.W+x0+r.span], src.Row(y))
	}
}

func (r *Running) rotate() {
	r.paste(0, r.buf.Sub(r.span, 2*r.span, 0, r.h))
	r.paste(r.span, r.white.Draw())
	r.elapsed -= r.period
}

// Size reports the field dimensions.
func (r *Running) Size() core.Size { return core.Size{W: r.w, H: r.h} }

// Next advances the window by dt and returns the shaped, cropped field.
func (r *Running) Next(dt float64) *core.Frame {
	if r.frame != nil && dt <= 0 {
		return r.frame.Clone()
	}
	r.elapsed += max(dt, 0)
	for r.elapsed >= r.period {
		r.rotate()
	}
	i := int(r.elapsed / r.period * float64(r.span))
	window := r.buf.Sub(i, i+r.span, 0, r.h)
	shaped := shape(window, r.mask)
	r.frame = shaped.Sub(r.margin, r.margin+r.w, 0, r.h)
	return r.frame.Clone()
}
