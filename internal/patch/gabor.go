// Package patch synthesizes oriented grating patches (Gabor and plaid) whose
// parameters can evolve over time.
package patch

import (
	"errors"
	"fmt"
	"math"

	"stimgen/internal/core"
)

const (
	// envelopeTrim is the floor below which the radial envelope is cut to zero.
	envelopeTrim = 0.005
	// envelopeSigma2 is σ² of exp(-(x²+y²)/σ²) in patch-normalized units.
	envelopeSigma2 = math.Pi / 64
)

// Kind selects the grating layout.
type Kind int

const (
	// KindGabor is a single grating.
	KindGabor Kind = iota
	// KindPlaid sums two gratings 90° apart.
	KindPlaid
)

func (k Kind) String() string {
	if k == KindPlaid {
		return "plaid"
	}
	return "gabor"
}

// ParseKind resolves "gabor" or "plaid".
func ParseKind(name string) (Kind, error) {
	switch name {
	case "", "gabor":
		return KindGabor, nil
	case "plaid":
		return KindPlaid, nil
	default:
		return 0, fmt.Errorf("unknown patch kind %q", name)
	}
}

// Config describes a patch generator.
type Config struct {
	SizeDeg float64
	PPD     float64
	Kind    Kind
	Params  Params
}

// Gabor renders an enveloped grating. Next returns the raw patch whose peak
// magnitude is 1 (samples in [-1, 1]); Normalized returns a [0, 1] copy.
type Gabor struct {
	kind    Kind
	size    int
	sizeDeg float64
	ppd     float64

	params   Params
	bindings []Binding

	// patch-normalized mesh in [-0.5, 0.5)
	meshX, meshY []float64
	envelope     []float64

	dirty      bool
	started    bool
	frame      *core.Frame
	normalized *core.Frame
}

// New builds a patch generator. Bound fields start at updater.Update(0);
// unbound fields keep cfg.Params.
func New(cfg Config, bindings ...Binding) (*Gabor, error) {
	if cfg.SizeDeg <= 0 || cfg.PPD <= 0 {
		return nil, errors.New("patch size and pixels per degree must be positive")
	}
	size := max(int(math.Round(cfg.SizeDeg*cfg.PPD)), 1)
	g := &Gabor{
		kind:     cfg.Kind,
		size:     size,
		sizeDeg:  cfg.SizeDeg,
		ppd:      cfg.PPD,
		params:   cfg.Params,
		bindings: bindings,
		dirty:    true,
	}
	g.buildMesh()
	g.applyUpdates(0)
	g.render()
	return g, nil
}

// NewGabor is New with KindGabor and default parameters.
func NewGabor(sizeDeg, ppd float64, bindings ...Binding) (*Gabor, error) {
	return New(Config{SizeDeg: sizeDeg, PPD: ppd, Kind: KindGabor, Params: DefaultParams}, bindings...)
}

// NewPlaid is New with KindPlaid and default parameters.
func NewPlaid(sizeDeg, ppd float64, bindings ...Binding) (*Gabor, error) {
	return New(Config{SizeDeg: sizeDeg, PPD: ppd, Kind: KindPlaid, Params: DefaultParams}, bindings...)
}

func (g *Gabor) buildMesh() {
	n := g.size
	axis := make([]float64, n)
	pos := (n-1)/2 + 1
	for k := 0; k < n; k++ {
		v := float64(k) / float64(n)
		if k >= pos {
			v = float64(k-n) / float64(n)
		}
		axis[(k+n/2)%n] = v
	}
	g.meshX = make([]float64, n*n)
	g.meshY = make([]float64, n*n)
	g.envelope = make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			g.meshX[i], g.meshY[i] = axis[x], axis[y]
			e := math.Exp(-(axis[x]*axis[x] + axis[y]*axis[y]) / envelopeSigma2)
			g.envelope[i] = math.Max(e, envelopeTrim) - envelopeTrim
		}
	}
	if g.kind == KindPlaid {
		for i := range g.envelope {
			g.envelope[i] /= 2
		}
	}
}

func (g *Gabor) applyUpdates(dt float64) {
	for _, b := range g.bindings {
		v := b.Updater.Update(dt)
		if v != g.params.Get(b.Field) {
			g.params.Set(b.Field, v)
			g.dirty = true
		}
	}
}

// grating evaluates sin(2π·freq·(x cosθ + y sinθ) + 2π·phase) at sample i,
// with x and y in degrees of visual angle.
func (g *Gabor) grating(i int, theta float64) float64 {
	rad := theta / 360 * 2 * math.Pi
	x := g.meshX[i] * g.sizeDeg
	y := g.meshY[i] * g.sizeDeg
	return math.Sin(2*math.Pi*g.params.Freq*(x*math.Cos(rad)+y*math.Sin(rad)) + 2*math.Pi*g.params.Phase)
}

func (g *Gabor) render() {
	if !g.dirty {
		return
	}
	f := core.NewFrame(g.size, g.size)
	peak := 0.0
	for i := range f.Data {
		v := g.grating(i, g.params.Theta)
		if g.kind == KindPlaid {
			v += g.grating(i, g.params.Theta+90)
		}
		v *= g.envelope[i]
		f.Data[i] = v
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		for i := range f.Data {
			f.Data[i] /= peak
		}
	}
	g.frame = f
	g.normalized = f.Normalized()
	g.dirty = false
}

// Size reports the patch dimensions.
func (g *Gabor) Size() core.Size { return core.Size{W: g.size, H: g.size} }

// Kind reports the grating layout.
func (g *Gabor) Kind() Kind { return g.kind }

// Next runs every update rule with dt and re-renders the patch if any
// parameter changed. A dt of zero never advances the update rules.
func (g *Gabor) Next(dt float64) *core.Frame {
	if dt > 0 || !g.started {
		if dt > 0 {
			g.applyUpdates(dt)
		}
		g.started = true
		g.render()
	}
	return g.frame.Clone()
}

// Normalized returns the current patch rescaled into [0, 1] without advancing
// time.
func (g *Gabor) Normalized() *core.Frame { return g.normalized.Clone() }

// Params returns the current parameter values.
func (g *Gabor) Params() Params { return g.params }

// Parameters exposes the live patch state for the HUD and logs.
func (g *Gabor) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Patch (" + g.kind.String() + ")",
		Params: []core.Parameter{
			core.IntParam("size", "Size px", g.size),
			core.FloatParam("theta", "Theta", g.params.Theta),
			core.FloatParam("freq", "Freq", g.params.Freq),
			core.FloatParam("phase", "Phase", g.params.Phase),
		},
	}}}
}
