package noise

import (
	"errors"
	"math"
	"slices"
	"testing"

	"stimgen/internal/core"
)

func TestFFTFreqMatchesNumpyLayout(t *testing.T) {
	cases := []struct {
		n    int
		want []float64
	}{
		{1, []float64{0}},
		{4, []float64{0, 0.25, -0.5, -0.25}},
		{5, []float64{0, 0.2, 0.4, -0.4, -0.2}},
	}
	for _, tc := range cases {
		got := fftFreq(tc.n)
		for i := range tc.want {
			if math.Abs(got[i]-tc.want[i]) > 1e-12 {
				t.Fatalf("fftFreq(%d) = %v, want %v", tc.n, got, tc.want)
			}
		}
	}
	if got := centeredFreq(4); got[2] != 0 || got[0] != -0.5 {
		t.Fatalf("centeredFreq(4) = %v", got)
	}
}

func TestWeightsZeroFrequencyUsesMinimum(t *testing.T) {
	mask := Weights(8, 6, ExponentPink)
	zero := mask[3][4]
	smallest := math.Inf(1)
	for y := range mask {
		for x := range mask[y] {
			if y == 3 && x == 4 {
				continue
			}
			smallest = math.Min(smallest, mask[y][x])
		}
	}
	if zero != smallest {
		t.Fatalf("zero-frequency weight %f, want minimum %f", zero, smallest)
	}
	if one := Weights(1, 1, ExponentPink); one[0][0] != 1 {
		t.Fatalf("1x1 mask weight = %f, want 1", one[0][0])
	}
}

func TestPinkStaysInUnitRange(t *testing.T) {
	sizes := []core.Size{{W: 64, H: 64}, {W: 1, H: 1}, {W: 1, H: 17}, {W: 23, H: 1}, {W: 30, H: 7}}
	for _, s := range sizes {
		p := NewPink(s.W, s.H, core.NewRNG(3))
		f := p.Draw()
		if f.W != s.W || f.H != s.H {
			t.Fatalf("size %v: got %dx%d", s, f.W, f.H)
		}
		if f.Min() < 0 || f.Max() > 1 {
			t.Fatalf("size %v: samples outside [0,1]: [%f,%f]", s, f.Min(), f.Max())
		}
	}
}

func TestPinkVarianceBelowWhite(t *testing.T) {
	pink := NewPink(64, 64, core.NewRNG(42)).Draw()
	white := NewWhite(64, 64, core.NewRNG(42)).Draw()
	if pink.Min() < 0 || pink.Max() > 1 {
		t.Fatalf("pink outside [0,1]: [%f,%f]", pink.Min(), pink.Max())
	}
	if pink.Variance() >= white.Variance() {
		t.Fatalf("pink variance %f should be below white variance %f", pink.Variance(), white.Variance())
	}
}

func TestPinkDeterministicPerSeed(t *testing.T) {
	a := NewPink(32, 16, core.NewRNG(7)).Draw()
	b := NewPink(32, 16, core.NewRNG(7)).Draw()
	if !slices.Equal(a.Data, b.Data) {
		t.Fatal("same seed should give identical fields")
	}
	gen := NewPink(32, 16, core.NewRNG(7))
	first, second := gen.Draw(), gen.Draw()
	if slices.Equal(first.Data, second.Data) {
		t.Fatal("successive draws should differ")
	}
}

func TestSpectrumCentersLowFrequencies(t *testing.T) {
	f := NewBrown(32, 32, core.NewRNG(11)).Draw()
	s := Spectrum(f)
	center := s.At(16, 16) + s.At(17, 16) + s.At(15, 16) + s.At(16, 15) + s.At(16, 17)
	corner := s.At(0, 0) + s.At(1, 0) + s.At(0, 1) + s.At(31, 31) + s.At(30, 31)
	if center <= corner {
		t.Fatalf("brown spectrum should peak near the centre: centre=%f corner=%f", center, corner)
	}
}

func TestRunningIdempotentAtZeroDT(t *testing.T) {
	r, err := NewRunning(40, 20, 1, core.NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	first := r.Next(0)
	again := r.Next(0)
	if !slices.Equal(first.Data, again.Data) {
		t.Fatal("dt=0 must return the same frame")
	}
	moved := r.Next(0.3)
	if slices.Equal(first.Data, moved.Data) {
		t.Fatal("positive dt should slide the window")
	}
	big := r.Next(3.7)
	if big.W != 40 || big.H != 20 {
		t.Fatalf("unexpected size %dx%d", big.W, big.H)
	}
	if big.Min() < 0 || big.Max() > 1 {
		t.Fatalf("running field outside [0,1]")
	}
	if r.elapsed < 0 || r.elapsed >= r.period {
		t.Fatalf("elapsed %f outside [0, period)", r.elapsed)
	}
	if _, err := NewRunning(4, 4, 0, core.NewRNG(1)); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestTemporalExhausts(t *testing.T) {
	p, err := NewTemporal(8, 8, 1, 4, core.NewRNG(9))
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("Len = %d, want 4", p.Len())
	}
	f0 := p.Next(0)
	if !slices.Equal(f0.Data, p.Next(0).Data) {
		t.Fatal("dt=0 must not advance playback")
	}
	p.Next(0.5)
	if p.Err() != nil {
		t.Fatalf("unexpected error mid-sequence: %v", p.Err())
	}
	last := p.Next(5)
	if !errors.Is(p.Err(), ErrSequenceExhausted) {
		t.Fatalf("expected ErrSequenceExhausted, got %v", p.Err())
	}
	if !slices.Equal(last.Data, p.frames[3].Data) {
		t.Fatal("exhausted playback should hold the final frame")
	}
	if _, err := NewTemporal(4, 4, 0, 30, core.NewRNG(1)); err == nil {
		t.Fatal("expected error for empty sequence")
	}
}

func TestRegistry(t *testing.T) {
	for _, kind := range []string{"white", "pink", "brown", "simplex", "single"} {
		src, err := New(kind, 12, 10, core.NewRNG(1))
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		f := src.Draw()
		if f.Min() < 0 || f.Max() > 1 {
			t.Fatalf("%s: samples outside [0,1]", kind)
		}
	}
	if _, err := New("purple", 4, 4, core.NewRNG(1)); !errors.Is(err, ErrUnknownNoise) {
		t.Fatalf("expected ErrUnknownNoise, got %v", err)
	}
}

func TestConstructorsRejectEmptyFields(t *testing.T) {
	rng := core.NewRNG(1)
	if _, err := New("pink", 0, 0, rng); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("New: expected ErrInvalidSize, got %v", err)
	}
	if _, err := New("white", 8, -1, rng); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("New: expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewRunning(0, 8, 1, rng); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("NewRunning: expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewTemporal(8, 0, 1, 4, rng); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("NewTemporal: expected ErrInvalidSize, got %v", err)
	}
}
