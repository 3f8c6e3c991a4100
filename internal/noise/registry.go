package noise

import (
	"errors"
	"fmt"

	"stimgen/internal/core"
)

// ErrUnknownNoise is returned when a configuration names a noise kind that is
// not registered.
var ErrUnknownNoise = errors.New("unknown noise type")

// ErrInvalidSize is returned for a non-positive field width or height.
var ErrInvalidSize = errors.New("noise field size must be positive")

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w, got %dx%d", ErrInvalidSize, w, h)
	}
	return nil
}

// New constructs the static generator registered under kind.
func New(kind string, w, h int, rng *core.RNG) (core.StaticSource, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	factory, ok := core.Noises()[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownNoise, kind, core.NoiseNames())
	}
	return factory(w, h, rng), nil
}

func init() {
	core.Register("white", func(w, h int, rng *core.RNG) core.StaticSource {
		return NewWhiteRange(w, h, 0, 1, rng)
	})
	core.Register("pink", func(w, h int, rng *core.RNG) core.StaticSource {
		return NewPink(w, h, rng)
	})
	core.Register("brown", func(w, h int, rng *core.RNG) core.StaticSource {
		return NewBrown(w, h, rng)
	})
	core.Register("simplex", func(w, h int, rng *core.RNG) core.StaticSource {
		return NewSimplex(w, h, rng)
	})
	core.Register("single", func(w, h int, rng *core.RNG) core.StaticSource {
		return NewSingleColor(w, h, 0.5)
	})
}
