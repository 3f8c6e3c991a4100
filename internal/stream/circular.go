package stream

import (
	"fmt"

	"stimgen/internal/core"
)

// Mode selects how a Circular stream walks its pre-generated sequence.
type Mode int

const (
	// Bounce walks the sequence forwards then backwards.
	Bounce Mode = iota
	// Restart jumps back to the first frame after the last one.
	Restart
)

// NewCircular pre-generates n fields from gen and cycles through them instead
// of drawing fresh goals.
func NewCircular(gen core.StaticSource, period float64, interp Interpolation, n int, mode Mode) (*Continuous, error) {
	if n < 2 {
		return nil, fmt.Errorf("circular stream needs at least 2 frames, got %d", n)
	}
	seq := make([]*core.Frame, n)
	for i := range seq {
		seq[i] = gen.Draw()
	}
	idx, dir := 1, 1
	next := func() *core.Frame {
		switch mode {
		case Restart:
			idx = (idx + 1) % n
		default:
			if idx+dir < 0 || idx+dir >= n {
				dir = -dir
			}
			idx += dir
		}
		return seq[idx]
	}
	c, err := newContinuous(gen.Size(), period, interp, next)
	if err != nil {
		return nil, err
	}
	c.origin = seq[0]
	c.goal = seq[1]
	return c, nil
}

// Single holds one drawn field for ever.
type Single struct {
	frame *core.Frame
}

// NewSingle draws one field from gen.
func NewSingle(gen core.StaticSource) *Single { return &Single{frame: gen.Draw()} }

// Size reports the frame dimensions.
func (s *Single) Size() core.Size { return s.frame.Size() }

// Next returns a copy of the held field regardless of dt.
func (s *Single) Next(float64) *core.Frame { return s.frame.Clone() }
