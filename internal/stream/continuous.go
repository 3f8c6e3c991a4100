// Package stream turns independently drawn static fields into continuous,
// time-driven frame sources.
package stream

import (
	"errors"
	"fmt"

	"stimgen/internal/core"
)

// ErrUnknownInterpolation is returned for interpolation names other than
// "linear".
var ErrUnknownInterpolation = errors.New("unknown interpolation")

// Interpolation blends origin towards goal by t in [0, 1).
type Interpolation func(origin, goal *core.Frame, t float64) *core.Frame

// Linear is the per-sample linear blend.
func Linear(origin, goal *core.Frame, t float64) *core.Frame { return core.Lerp(origin, goal, t) }

// InterpolationByName resolves a configured interpolation name.
func InterpolationByName(name string) (Interpolation, error) {
	switch name {
	case "", "linear", "simple":
		return Linear, nil
	default:
		return nil, fmt.Errorf("%w %q: try \"linear\"", ErrUnknownInterpolation, name)
	}
}

// goalFunc supplies the next goal frame when the period elapses.
type goalFunc func() *core.Frame

// Continuous interpolates between an origin and a goal field, drawing a new
// goal each time the accumulated time crosses the period.
type Continuous struct {
	size   core.Size
	period float64
	interp Interpolation
	next   goalFunc

	origin, goal *core.Frame
	elapsed      float64
	rotations    int
	frame        *core.Frame
}

// NewContinuous wraps gen. Two independent fields are drawn immediately as
// origin and goal.
func NewContinuous(gen core.StaticSource, period float64, interp Interpolation) (*Continuous, error) {
	if gen == nil {
		return nil, errors.New("continuous stream needs a generator")
	}
	c, err := newContinuous(gen.Size(), period, interp, gen.Draw)
	if err != nil {
		return nil, err
	}
	c.origin = gen.Draw()
	c.goal = gen.Draw()
	return c, nil
}

func newContinuous(size core.Size, period float64, interp Interpolation, next goalFunc) (*Continuous, error) {
	if period <= 0 {
		return nil, fmt.Errorf("stream period must be positive, got %v", period)
	}
	if interp == nil {
		interp = Linear
	}
	return &Continuous{size: size, period: period, interp: interp, next: next}, nil
}

// Size reports the frame dimensions.
func (c *Continuous) Size() core.Size { return c.size }

// Elapsed is the time accumulated since the last rotation, always in
// [0, period).
func (c *Continuous) Elapsed() float64 { return c.elapsed }

// Rotations counts how many times goal has been rotated into origin.
func (c *Continuous) Rotations() int { return c.rotations }

// Period returns the rotation period.
func (c *Continuous) Period() float64 { return c.period }

func (c *Continuous) rotate() {
	c.origin = c.goal
	c.goal = c.next()
	c.elapsed -= c.period
	c.rotations++
}

// Next accumulates dt, rotates as many times as needed and returns the
// interpolated frame.
func (c *Continuous) Next(dt float64) *core.Frame {
	if c.frame != nil && dt <= 0 {
		return c.frame.Clone()
	}
	c.elapsed += max(dt, 0)
	for c.elapsed >= c.period {
		c.rotate()
	}
	c.frame = c.interp(c.origin, c.goal, c.elapsed/c.period)
	return c.frame.Clone()
}

// Parameters exposes the stream state.
func (c *Continuous) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Stream",
		Params: []core.Parameter{
			core.FloatParam("period", "Period", c.period),
			core.FloatParam("elapsed", "Elapsed", c.elapsed),
			core.IntParam("rotations", "Rotations", c.rotations),
		},
	}}}
}
