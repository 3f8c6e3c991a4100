package patch

import (
	"math"

	"stimgen/internal/core"
)

// Updater advances a scalar by the elapsed time dt and returns the new value.
type Updater interface {
	Update(dt float64) float64
}

// Constant never changes.
type Constant float64

// Update returns the constant.
func (c Constant) Update(float64) float64 { return float64(c) }

// Lin changes linearly with time.
type Lin struct {
	Step  float64
	value float64
}

// NewLin starts at initial and moves by step per time unit.
func NewLin(initial, step float64) *Lin { return &Lin{Step: step, value: initial} }

// Update advances the value by dt*Step.
func (l *Lin) Update(dt float64) float64 {
	l.value += dt * l.Step
	return l.value
}

// Sin oscillates between Min and Max with the given period.
type Sin struct {
	Min, Max float64
	Period   float64
	time     float64
}

// NewSin builds a sine updater. The first value is the midpoint.
func NewSin(lo, hi, period float64) *Sin { return &Sin{Min: lo, Max: hi, Period: period} }

// NewCircular oscillates around center by ±distance.
func NewCircular(center, distance, period float64) *Sin {
	return NewSin(center-distance, center+distance, period)
}

// Update advances the phase by dt.
func (s *Sin) Update(dt float64) float64 {
	s.time += dt
	if s.Period > 0 {
		s.time = math.Mod(s.time, s.Period)
	}
	pos := 0.0
	if s.Period > 0 {
		pos = math.Sin(2 * math.Pi * s.time / s.Period)
	}
	return (pos+1)/2*(s.Max-s.Min) + s.Min
}

// Brownian takes a random step of ±dt*Step on every update.
type Brownian struct {
	Step  float64
	value float64
	rng   *core.RNG
}

// NewBrownian starts a random walk at initial.
func NewBrownian(initial, step float64, rng *core.RNG) *Brownian {
	return &Brownian{Step: step, value: initial, rng: rng}
}

// Update moves the walk by one random step.
func (b *Brownian) Update(dt float64) float64 {
	if b.rng.Bool() {
		b.value += dt * b.Step
	} else {
		b.value -= dt * b.Step
	}
	return b.value
}
