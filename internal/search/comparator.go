// Package search answers whether any patch from a parameter sweep resembles a
// frame window.
package search

import (
	"errors"
	"fmt"

	"stimgen/internal/core"
	"stimgen/internal/patch"
	"stimgen/internal/similarity"
)

// DefaultGranularity is the number of sweep steps per parameter.
const DefaultGranularity = 100

// Library entries are normalized into [0, 1], so the dynamic range is fixed.
const dynamicRange = 1

// Config controls the pattern library.
type Config struct {
	SizeDeg     float64
	PPD         float64
	Kind        patch.Kind
	Granularity int
	// FreqMax is the top of the frequency sweep in cycles per degree. Zero
	// selects ppd/2, the highest frequency a patch can show without aliasing.
	FreqMax float64
	Weights similarity.Weights
	// PhaseInvariant replaces the covariance structure term with the Fourier
	// amplitude comparison.
	PhaseInvariant bool
	// Sweep lists the swept parameters; nil sweeps all of them.
	Sweep []patch.Field
}

// DefaultConfig mirrors the settings used for localization runs.
func DefaultConfig(sizeDeg, ppd float64) Config {
	return Config{
		SizeDeg:     sizeDeg,
		PPD:         ppd,
		Kind:        patch.KindGabor,
		Granularity: DefaultGranularity,
		Weights:     similarity.DefaultWeights,
		Sweep:       patch.Fields,
	}
}

type entry struct {
	frame *core.Frame
	stats similarity.Stats
}

// Comparator holds a pre-generated pattern library.
type Comparator struct {
	cfg     Config
	size    core.Size
	c1, c2  float64
	entries []entry
}

// New builds the library: each swept parameter starts at 0 and advances by
// period/granularity for granularity+1 patches while the others stay at
// patch.DefaultParams.
func New(cfg Config) (*Comparator, error) {
	if cfg.Granularity <= 0 {
		cfg.Granularity = DefaultGranularity
	}
	if cfg.FreqMax <= 0 {
		cfg.FreqMax = cfg.PPD / 2
	}
	if cfg.Sweep == nil {
		cfg.Sweep = patch.Fields
	}
	if len(cfg.Sweep) == 0 {
		return nil, errors.New("pattern sweep is empty")
	}
	cfg.Weights = cfg.Weights.OrDefault()

	c := &Comparator{cfg: cfg}
	c.c1, c.c2 = similarity.StabilizersFor(dynamicRange)
	for _, field := range cfg.Sweep {
		step, err := sweepStep(field, cfg)
		if err != nil {
			return nil, err
		}
		gen, err := patch.New(patch.Config{
			SizeDeg: cfg.SizeDeg,
			PPD:     cfg.PPD,
			Kind:    cfg.Kind,
			Params:  patch.DefaultParams,
		}, patch.Bind(field, patch.NewLin(0, step)))
		if err != nil {
			return nil, fmt.Errorf("pattern library: %w", err)
		}
		c.size = gen.Size()
		gen.Next(0)
		for i := 0; i <= cfg.Granularity; i++ {
			f := gen.Normalized()
			c.entries = append(c.entries, entry{frame: f, stats: similarity.StatsOf(f)})
			gen.Next(1)
		}
	}
	return c, nil
}

func sweepStep(f patch.Field, cfg Config) (float64, error) {
	g := float64(cfg.Granularity)
	switch f {
	case patch.FieldTheta:
		return 180 / g, nil
	case patch.FieldPhase:
		return 1 / g, nil
	case patch.FieldFreq:
		return cfg.FreqMax / g, nil
	default:
		return 0, fmt.Errorf("cannot sweep %v", f)
	}
}

// Len reports the number of library patches.
func (c *Comparator) Len() int { return len(c.entries) }

// PatchSize reports the side length windows are expected to have.
func (c *Comparator) PatchSize() core.Size { return c.size }

// Config returns the effective configuration after defaults were applied.
func (c *Comparator) Config() Config { return c.cfg }

// BestMatch scores window against every library patch and returns the
// highest score. The window must have the library's patch size.
func (c *Comparator) BestMatch(window *core.Frame) float64 {
	ws := similarity.StatsOf(window)
	best := 0.0
	for i, e := range c.entries {
		s := similarity.Score(e.frame, window, e.stats, ws, c.c1, c.c2, c.cfg.Weights, c.cfg.PhaseInvariant)
		if i == 0 || s > best {
			best = s
		}
	}
	return best
}
