package heatmap

import (
	"errors"
	"fmt"

	"stimgen/internal/core"
	"stimgen/internal/search"
	"stimgen/internal/similarity"
)

// ErrUnknownMethod is returned for detection method names NewMethod does not
// know.
var ErrUnknownMethod = errors.New("unknown detection method")

// Detection method names.
const (
	MethodPatternSSIM   = "pattern_ssim"
	MethodTrueSSIM      = "true_ssim"
	MethodTrueCWSSIM    = "true_cw_ssim"
	MethodThresholdDiff = "threshold_diff"
	MethodPureDiff      = "pure_diff"
	MethodAvgDiff       = "avg_diff"
)

// Methods lists every method name in report order.
var Methods = []string{
	MethodAvgDiff, MethodPureDiff, MethodThresholdDiff,
	MethodPatternSSIM, MethodTrueSSIM, MethodTrueCWSSIM,
}

// ReferenceWeights drop luminance and favour structure over contrast when a
// window is compared to the known patch.
var ReferenceWeights = similarity.Weights{Alpha: 0, Beta: -0.5, Gamma: 0.5}

// MeanKey is the cache key of the frame mean.
const MeanKey = "mean"

// MeanCache caches the frame mean under MeanKey.
func MeanCache(f *core.Frame) Cache { return Cache{MeanKey: f.Mean()} }

// RMSContrastWindow scores a window by its RMS contrast.
func RMSContrastWindow(f *core.Frame, w Window, _ Cache) float64 {
	return f.Sub(w.X1, w.X2, w.Y1, w.Y2).Std()
}

// DiffWindow scores a window by how far its mean departs from the frame
// mean cached by MeanCache.
func DiffWindow(f *core.Frame, w Window, cached Cache) float64 {
	m := f.Sub(w.X1, w.X2, w.Y1, w.Y2).Mean()
	d := m - cached[MeanKey]
	if d < 0 {
		return -d
	}
	return d
}

// PatternWindow scores a window by its best match in the comparator library.
func PatternWindow(c *search.Comparator) ProcessFunc {
	size := c.PatchSize().W
	return func(f *core.Frame, w Window, _ Cache) float64 {
		return c.BestMatch(Padded(f, w, size))
	}
}

// ReferenceWindow scores a window against the frame returned by ref.
func ReferenceWindow(score func(a, b *core.Frame) float64, ref func() *core.Frame) ProcessFunc {
	return func(f *core.Frame, w Window, _ Cache) float64 {
		r := ref()
		return score(Padded(f, w, r.W), r)
	}
}

// Padded copies window w of f into a size x size frame filled with zeros.
// Windows clipped by the left or top edge are aligned to the far side so the
// samples keep their place relative to the window centre.
func Padded(f *core.Frame, w Window, size int) *core.Frame {
	sub := f.Sub(w.X1, w.X2, w.Y1, w.Y2)
	if sub.W == size && sub.H == size {
		return sub
	}
	out := core.NewFrame(size, size)
	ox, oy := 0, 0
	if sub.W < size && w.X1 == 0 {
		ox = size - sub.W
	}
	if sub.H < size && w.Y1 == 0 {
		oy = size - sub.H
	}
	for y := 0; y < min(sub.H, size-oy); y++ {
		copy(out.Row(y + oy)[ox:], sub.Row(y))
	}
	return out
}

// MethodConfig carries what the detection methods need besides the scene.
type MethodConfig struct {
	WindowSize int
	Step       int
	// Period is the scene period used by the threshold difference.
	Period float64
	// Pattern configures the library for pattern_ssim.
	Pattern search.Config
	// Reference returns the current normalized patch for true_ssim and
	// true_cw_ssim.
	Reference func() *core.Frame
	// Raw skips the percentile aggregation.
	Raw bool
}

// Method is a configured detection pipeline.
type Method struct {
	Name string
	// Diff is the motion map feeding a difference method; nil otherwise.
	Diff *Difference
	Map  *Generator
}

// NewMethod wires the named detector on top of scene. Scene is observed, not
// advanced: callers keep driving it themselves.
func NewMethod(name string, scene core.Source, cfg MethodConfig) (*Method, error) {
	view := core.NewView(scene)
	opts := Options{WindowSize: cfg.WindowSize, Step: cfg.Step}
	if !cfg.Raw {
		opts.Aggregate = ProbabilisticDistribution
	}
	m := &Method{Name: name}

	var src core.Source = view
	switch name {
	case MethodThresholdDiff, MethodPureDiff, MethodAvgDiff:
		variant := map[string]DiffVariant{
			MethodThresholdDiff: DiffThreshold,
			MethodPureDiff:      DiffPure,
			MethodAvgDiff:       DiffAverage,
		}[name]
		d, err := NewDifference(view, variant, cfg.Period)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m.Diff = d
		src = d
		opts.Process = DiffWindow
		opts.Cache = MeanCache
	case MethodPatternSSIM:
		c, err := search.New(cfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		opts.Process = PatternWindow(c)
	case MethodTrueSSIM, MethodTrueCWSSIM:
		if cfg.Reference == nil {
			return nil, fmt.Errorf("%s needs a reference patch", name)
		}
		score := func(a, b *core.Frame) float64 { return similarity.SSIM(a, b, ReferenceWeights) }
		if name == MethodTrueCWSSIM {
			score = func(a, b *core.Frame) float64 { return similarity.CWSSIM(a, b, ReferenceWeights) }
		}
		opts.Process = ReferenceWindow(score, cfg.Reference)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, name)
	}

	g, err := NewGenerator(src, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.Map = g
	return m, nil
}
