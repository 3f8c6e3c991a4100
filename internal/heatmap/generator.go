package heatmap

import (
	"errors"

	"stimgen/internal/core"
)

// Cache holds per-frame values computed once and shared by every window.
type Cache map[string]float64

// ProcessFunc scores one window of f.
type ProcessFunc func(f *core.Frame, win Window, cached Cache) float64

// CacheFunc computes the shared per-frame values.
type CacheFunc func(f *core.Frame) Cache

// AggregateFunc post-processes the flat list of window scores in place.
type AggregateFunc func(values []float64)

// Options configures a Generator.
type Options struct {
	// WindowSize is the window side length in pixels.
	WindowSize int
	// Step between window centres; zero selects WindowSize/2.
	Step      int
	Process   ProcessFunc
	Cache     CacheFunc
	Aggregate AggregateFunc
}

// Generator is a frame source producing the heat map of another source.
type Generator struct {
	src  core.Source
	opts Options

	windows    []Window
	cols, rows int

	input  *core.Frame
	values []float64
	frame  *core.Frame
}

// NewGenerator wraps src.
func NewGenerator(src core.Source, opts Options) (*Generator, error) {
	if src == nil || opts.Process == nil {
		return nil, errors.New("heat map needs a source and a process function")
	}
	if opts.Step == 0 {
		opts.Step = max(opts.WindowSize/2, 1)
	}
	size := src.Size()
	windows, err := WindowIndices(size.W, size.H, opts.WindowSize, opts.Step)
	if err != nil {
		return nil, err
	}
	return &Generator{
		src:     src,
		opts:    opts,
		windows: windows,
		cols:    Dims(size.W, opts.Step),
		rows:    Dims(size.H, opts.Step),
	}, nil
}

// Size reports the map dimensions, equal to the wrapped source.
func (g *Generator) Size() core.Size { return g.src.Size() }

// Dims reports the grid shape (columns, rows).
func (g *Generator) Dims() (cols, rows int) { return g.cols, g.rows }

// Windows lists the evaluated windows in x-major order.
func (g *Generator) Windows() []Window { return g.windows }

// Value returns the aggregated score of grid corner (i, j).
func (g *Generator) Value(i, j int) float64 { return g.values[i*g.rows+j] }

// Values returns a copy of the aggregated scores in x-major order.
func (g *Generator) Values() []float64 { return append([]float64(nil), g.values...) }

// Input returns the frame the latest map was computed from.
func (g *Generator) Input() *core.Frame { return g.input.Clone() }

// Next advances the wrapped source once and rebuilds the map.
func (g *Generator) Next(dt float64) *core.Frame {
	if g.frame != nil && dt <= 0 {
		return g.frame.Clone()
	}
	g.input = g.src.Next(dt)
	var cached Cache
	if g.opts.Cache != nil {
		cached = g.opts.Cache(g.input)
	}
	values := make([]float64, len(g.windows))
	for i, w := range g.windows {
		values[i] = g.opts.Process(g.input, w, cached)
	}
	if g.opts.Aggregate != nil {
		g.opts.Aggregate(values)
	}
	g.values = values
	g.frame = g.reconstruct()
	return g.frame.Clone()
}

// reconstruct scales each interior step x step block by the mean of its four
// corner scores. Pixels outside every block stay at 1.
func (g *Generator) reconstruct() *core.Frame {
	size := g.src.Size()
	out := core.NewFrame(size.W, size.H)
	out.Fill(1)
	step := g.opts.Step
	for i := 0; i < g.cols-1; i++ {
		x1, x2 := i*step, min((i+1)*step, size.W)
		for j := 0; j < g.rows-1; j++ {
			y1, y2 := j*step, min((j+1)*step, size.H)
			v := (g.Value(i, j) + g.Value(i+1, j) + g.Value(i, j+1) + g.Value(i+1, j+1)) / 4
			for y := y1; y < y2; y++ {
				row := out.Row(y)
				for x := x1; x < x2; x++ {
					row[x] *= v
				}
			}
		}
	}
	return out
}

// Parameters exposes the window layout.
func (g *Generator) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Heat map",
		Params: []core.Parameter{
			core.IntParam("window", "Window", g.opts.WindowSize),
			core.IntParam("step", "Step", g.opts.Step),
			core.IntParam("cols", "Cols", g.cols),
			core.IntParam("rows", "Rows", g.rows),
		},
	}}}
}
