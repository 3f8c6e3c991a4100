package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Uniform returns a value in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Int64 returns a non-negative pseudo-random int64.
func (r *RNG) Int64() int64 { return r.r.Int64() }

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// FillUniform fills buf with values drawn uniformly from [lo, hi).
func FillUniform(r *RNG, buf []float64, lo, hi float64) {
	for i := range buf {
		buf[i] = r.Uniform(lo, hi)
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
