package experiment

import (
	"fmt"

	"stimgen/internal/composite"
	"stimgen/internal/core"
	"stimgen/internal/heatmap"
	"stimgen/internal/noise"
	"stimgen/internal/patch"
	"stimgen/internal/search"
	"stimgen/internal/stream"
)

// Pipeline is a built run: a base noise stream with one moving patch and a
// detector per configured method observing the composite scene.
type Pipeline struct {
	Base    core.Source
	Patch   *patch.Gabor
	Scene   *composite.Patched
	Methods []*heatmap.Method
}

// Build constructs the pipeline for cfg. Every random draw comes from rng.
func Build(cfg Config, rng *core.RNG) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := buildBase(cfg, rng)
	if err != nil {
		return nil, err
	}
	kind, err := patch.ParseKind(cfg.PatchKind)
	if err != nil {
		return nil, err
	}
	bindings, err := buildBindings(cfg.Updates, rng)
	if err != nil {
		return nil, err
	}
	params := patch.DefaultParams
	gen, err := patch.New(patch.Config{SizeDeg: cfg.PatchSizeDeg, PPD: cfg.PPD, Kind: kind, Params: params}, bindings...)
	if err != nil {
		return nil, err
	}

	position := composite.Static(cfg.PatchX, cfg.PatchY)
	if cfg.ShiftX != 0 || cfg.ShiftY != 0 {
		position = composite.Linear(cfg.PatchX, cfg.PatchY, cfg.ShiftX, cfg.ShiftY)
	}
	scene, err := composite.NewPatched(base, cfg.Contrast, composite.Placement{Patch: gen, Position: position})
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Base: base, Patch: gen, Scene: scene}
	mcfg := heatmap.MethodConfig{
		WindowSize: cfg.WindowSize(),
		Step:       cfg.WindowStep(),
		Period:     cfg.Period,
		Pattern: search.Config{
			SizeDeg:     cfg.PatchSizeDeg,
			PPD:         cfg.PPD,
			Kind:        kind,
			Granularity: cfg.Granularity,
		},
		Reference: gen.Normalized,
	}
	for _, name := range cfg.Methods {
		m, err := heatmap.NewMethod(name, scene, mcfg)
		if err != nil {
			return nil, err
		}
		p.Methods = append(p.Methods, m)
	}
	return p, nil
}

func buildBase(cfg Config, rng *core.RNG) (core.Source, error) {
	switch cfg.Stream {
	case "running":
		return noise.NewRunning(cfg.Width, cfg.Height, cfg.Period, rng)
	case "temporal":
		return noise.NewTemporal(cfg.Width, cfg.Height, float64(cfg.Length), cfg.FPS, rng)
	}
	gen, err := noise.New(cfg.Noise, cfg.Width, cfg.Height, rng)
	if err != nil {
		return nil, err
	}
	interp, err := stream.InterpolationByName(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	switch cfg.Stream {
	case "single":
		return stream.NewSingle(gen), nil
	case "", "continuous":
		return stream.NewContinuous(gen, cfg.Period, interp)
	case "circular":
		return stream.NewCircular(gen, cfg.Period, interp, cfg.CircularFrames, stream.Bounce)
	default:
		return nil, fmt.Errorf("unknown stream kind %q", cfg.Stream)
	}
}

func buildBindings(updates []UpdateConfig, rng *core.RNG) ([]patch.Binding, error) {
	out := make([]patch.Binding, 0, len(updates))
	for _, u := range updates {
		field, err := patch.ParseField(u.Field)
		if err != nil {
			return nil, err
		}
		var up patch.Updater
		switch u.Rule {
		case "", "lin":
			up = patch.NewLin(u.Initial, u.Step)
		case "sin":
			up = patch.NewSin(u.Min, u.Max, u.Period)
		case "circular":
			up = patch.NewCircular(u.Initial, u.Step, u.Period)
		case "brownian":
			up = patch.NewBrownian(u.Initial, u.Step, rng)
		case "constant":
			up = patch.Constant(u.Initial)
		default:
			return nil, fmt.Errorf("unknown update rule %q for %s", u.Rule, u.Field)
		}
		out = append(out, patch.Bind(field, up))
	}
	return out, nil
}

// Target is the scene rectangle currently covered by the patch.
func (p *Pipeline) Target() heatmap.Window {
	pos := p.Scene.Positions()[0]
	s := p.Patch.Size()
	return heatmap.Window{X1: pos[0], X2: pos[0] + s.W, Y1: pos[1], Y2: pos[1] + s.H}
}

// Parameters collects the live parameters of the scene.
func (p *Pipeline) Parameters() core.ParameterSnapshot { return p.Scene.Parameters() }
