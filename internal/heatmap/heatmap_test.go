package heatmap

import (
	"errors"
	"math"
	"slices"
	"testing"

	"stimgen/internal/core"
	"stimgen/internal/patch"
	"stimgen/internal/search"
)

type stepSource struct {
	frame *core.Frame
	inc   float64
}

func (s *stepSource) Size() core.Size { return s.frame.Size() }

func (s *stepSource) Next(dt float64) *core.Frame {
	if dt > 0 {
		for i := range s.frame.Data {
			s.frame.Data[i] += s.inc * dt
		}
	}
	return s.frame.Clone()
}

func TestWindowIndices(t *testing.T) {
	wins, err := WindowIndices(10, 6, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 6*4 {
		t.Fatalf("%d windows, want 24", len(wins))
	}
	if wins[0] != (Window{X1: 0, X2: 2, Y1: 0, Y2: 2}) {
		t.Fatalf("first window %+v", wins[0])
	}
	// x-major: the second window moves down, not right
	if wins[1] != (Window{X1: 0, X2: 2, Y1: 0, Y2: 4}) {
		t.Fatalf("second window %+v", wins[1])
	}
	if wins[4] != (Window{X1: 0, X2: 4, Y1: 0, Y2: 2}) {
		t.Fatalf("fifth window %+v", wins[4])
	}
	last := wins[len(wins)-1]
	if last != (Window{X1: 8, X2: 10, Y1: 4, Y2: 6}) {
		t.Fatalf("last window %+v", last)
	}
	for _, w := range wins {
		if w.Width() <= 0 || w.Height() <= 0 {
			t.Fatalf("empty window %+v", w)
		}
	}
	if _, err := WindowIndices(10, 10, 0, 2); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestWindowIndicesNarrowStep(t *testing.T) {
	// step is a quarter of the window, as in the experiment default
	wins, err := WindowIndices(20, 20, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	cols, rows := Dims(20, 2), Dims(20, 2)
	if len(wins) != cols*rows {
		t.Fatalf("%d windows, want %d", len(wins), cols*rows)
	}
	want := [][2]int{{0, 2}, {0, 4}, {0, 6}, {0, 8}, {2, 10}, {4, 12}}
	for i, x := range want {
		got := wins[i*rows]
		if got.X1 != x[0] || got.X2 != x[1] {
			t.Fatalf("col %d: got [%d,%d) want [%d,%d)", i, got.X1, got.X2, x[0], x[1])
		}
	}
	for j, y := range want {
		got := wins[j]
		if got.Y1 != y[0] || got.Y2 != y[1] {
			t.Fatalf("row %d: got [%d,%d) want [%d,%d)", j, got.Y1, got.Y2, y[0], y[1])
		}
	}
	last := wins[len(wins)-1]
	if last != (Window{X1: 14, X2: 20, Y1: 14, Y2: 20}) {
		t.Fatalf("last window %+v", last)
	}
}

func TestWindowIndicesRejectsZeroStep(t *testing.T) {
	if _, err := WindowIndices(10, 10, 4, 0); err == nil {
		t.Fatal("expected error for zero step")
	}
}

func TestConstantScoreGivesUniformMap(t *testing.T) {
	for _, size := range []core.Size{{W: 20, H: 20}, {W: 23, H: 17}} {
		src := &stepSource{frame: core.NewFrame(size.W, size.H)}
		g, err := NewGenerator(src, Options{
			WindowSize: 8,
			Step:       3,
			Process:    func(*core.Frame, Window, Cache) float64 { return 0.7 },
		})
		if err != nil {
			t.Fatal(err)
		}
		out := g.Next(1)
		for i, v := range out.Data {
			if math.Abs(v-0.7) > 1e-12 {
				t.Fatalf("%v: sample %d = %f, want 0.7", size, i, v)
			}
		}
	}
}

func TestReconstructAveragesCorners(t *testing.T) {
	src := &stepSource{frame: core.NewFrame(4, 4)}
	g, err := NewGenerator(src, Options{
		WindowSize: 4,
		Step:       2,
		Process:    func(_ *core.Frame, w Window, _ Cache) float64 { return float64(w.X2) },
	})
	if err != nil {
		t.Fatal(err)
	}
	out := g.Next(1)
	cols, rows := g.Dims()
	if cols != 3 || rows != 3 {
		t.Fatalf("grid %dx%d", cols, rows)
	}
	// corner x2 values per column: 2, 4, 4
	if got := out.At(0, 0); got != 3 {
		t.Fatalf("left block %f, want 3", got)
	}
	if got := out.At(3, 3); got != 4 {
		t.Fatalf("right block %f, want 4", got)
	}
}

func TestGeneratorZeroStepIsIdempotent(t *testing.T) {
	src := &stepSource{frame: core.NewFrame(12, 12), inc: 0.1}
	calls := 0
	g, _ := NewGenerator(src, Options{
		WindowSize: 4,
		Process: func(f *core.Frame, w Window, _ Cache) float64 {
			calls++
			return f.Sub(w.X1, w.X2, w.Y1, w.Y2).Mean()
		},
	})
	a := g.Next(1)
	n := calls
	b := g.Next(0)
	if !slices.Equal(a.Data, b.Data) || calls != n {
		t.Fatal("dt=0 recomputed the map")
	}
}

func TestProbabilisticDistribution(t *testing.T) {
	values := []float64{3, 1, 2, 4, 5, 6, 7, 8, 9, 10}
	ProbabilisticDistribution(values)
	want := []float64{0.3, 0.1, 0.2, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-12 {
			t.Fatalf("values %v, want %v", values, want)
		}
	}
	flat := []float64{2, 2, 2}
	ProbabilisticDistribution(flat)
	if !slices.Equal(flat, []float64{0, 0, 0}) {
		t.Fatalf("constant input mapped to %v", flat)
	}
}

func TestEvaluate(t *testing.T) {
	hmap := core.NewFrame(10, 10)
	target := Window{X1: 2, X2: 4, Y1: 2, Y2: 4}
	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			hmap.Set(x, y, 1)
		}
	}
	res, err := Evaluate(hmap, target, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Recall != 1 || res[0].FPR != 0 {
		t.Fatalf("100th percentile %+v", res[0])
	}
	if res[1].Recall != 1 || res[1].FPR != 1 {
		t.Fatalf("50th percentile %+v", res[1])
	}
}

func TestDifferenceVariants(t *testing.T) {
	mk := func(v DiffVariant) *Difference {
		f := core.NewFrame(4, 1)
		copy(f.Data, []float64{0, 0.2, 0.4, 1})
		d, err := NewDifference(&stepSource{frame: f, inc: 0.1}, v, 10)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}
	pure := mk(DiffPure).Next(1)
	for _, v := range pure.Data {
		if math.Abs(v-0.1) > 1e-12 {
			t.Fatalf("pure diff %v", pure.Data)
		}
	}
	// dynamic range 1, dt 1, period 10: the natural change 0.1 is trimmed
	th := mk(DiffThreshold).Next(1)
	if th.Max() > 1e-12 {
		t.Fatalf("threshold diff %v", th.Data)
	}
	avg := mk(DiffAverage).Next(1)
	if avg.Max() > 1e-12 {
		t.Fatalf("avg diff %v", avg.Data)
	}
	if _, err := NewDifference(&stepSource{frame: core.NewFrame(1, 1)}, DiffThreshold, 0); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestPadded(t *testing.T) {
	f := core.NewFrame(6, 6)
	f.Fill(1)
	p := Padded(f, Window{X1: 0, X2: 2, Y1: 3, Y2: 6}, 4)
	if p.W != 4 || p.H != 4 {
		t.Fatalf("padded size %dx%d", p.W, p.H)
	}
	// left-clipped: data on the right; bottom-clipped: data on top
	if p.At(0, 0) != 0 || p.At(2, 0) != 1 || p.At(3, 2) != 1 || p.At(3, 3) != 0 {
		t.Fatalf("padded layout %v", p.Data)
	}
}

func TestNewMethod(t *testing.T) {
	scene := &stepSource{frame: core.NewFrame(24, 24), inc: 0.01}
	if _, err := NewMethod("nope", scene, MethodConfig{WindowSize: 8}); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("unknown method error %v", err)
	}
	ref, _ := patch.NewGabor(0.4, 20)
	cfg := MethodConfig{
		WindowSize: 8,
		Step:       2,
		Period:     2,
		Pattern:    search.Config{SizeDeg: 0.4, PPD: 20, Granularity: 2},
		Reference:  ref.Normalized,
	}
	for _, name := range Methods {
		m, err := NewMethod(name, scene, cfg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		scene.Next(1)
		out := m.Map.Next(1)
		if out.W != 24 || out.H != 24 {
			t.Fatalf("%s: map size %dx%d", name, out.W, out.H)
		}
		for _, v := range m.Map.Values() {
			if v < 0 || v > 1 {
				t.Fatalf("%s: aggregated value %f outside [0,1]", name, v)
			}
		}
		if (m.Diff != nil) != (name == MethodAvgDiff || name == MethodPureDiff || name == MethodThresholdDiff) {
			t.Fatalf("%s: unexpected diff stage", name)
		}
	}
}
