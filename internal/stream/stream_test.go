package stream

import (
	"errors"
	"math"
	"slices"
	"testing"

	"stimgen/internal/core"
)

// counter returns constant fields holding the draw index.
type counter struct{ n int }

func (c *counter) Size() core.Size { return core.Size{W: 3, H: 2} }

func (c *counter) Draw() *core.Frame {
	f := core.NewFrame(3, 2)
	f.Fill(float64(c.n))
	c.n++
	return f
}

func TestContinuousInvariant(t *testing.T) {
	gen := &counter{}
	c, err := NewContinuous(gen, 0.7, nil)
	if err != nil {
		t.Fatal(err)
	}
	dts := []float64{0, 0.1, 0.25, 1.9, 0, 0.05, 3.3, 0.6}
	total := 0.0
	for _, dt := range dts {
		c.Next(dt)
		total += dt
		want := math.Mod(total, 0.7)
		if math.Abs(c.Elapsed()-want) > 1e-9 && math.Abs(c.Elapsed()-want-0.7) > 1e-9 && math.Abs(c.Elapsed()-want+0.7) > 1e-9 {
			t.Fatalf("after T=%f elapsed=%f, want %f", total, c.Elapsed(), want)
		}
		if c.Elapsed() < 0 || c.Elapsed() >= c.Period() {
			t.Fatalf("elapsed %f outside [0, period)", c.Elapsed())
		}
	}
	if got, want := c.Rotations(), int(math.Floor(total/0.7+1e-9)); got != want {
		t.Fatalf("rotations = %d, want %d", got, want)
	}
	if gen.n != 2+c.Rotations() {
		t.Fatalf("expected one draw per rotation, drew %d", gen.n)
	}
}

func TestContinuousZeroDTIsIdempotent(t *testing.T) {
	c, err := NewContinuous(&counter{}, 1, Linear)
	if err != nil {
		t.Fatal(err)
	}
	first := c.Next(0)
	if first == nil {
		t.Fatal("first call must produce a frame")
	}
	c.Next(0.4)
	a := c.Next(0)
	b := c.Next(0)
	if !slices.Equal(a.Data, b.Data) {
		t.Fatal("dt=0 should return the identical frame")
	}
	if math.Abs(a.Data[0]-0.4) > 1e-12 {
		t.Fatalf("expected blend 0.4 between fields 0 and 1, got %f", a.Data[0])
	}
	a.Data[0] = 99
	if c.Next(0).Data[0] == 99 {
		t.Fatal("returned frames must not alias internal state")
	}
}

func TestContinuousLargeStepCatchesUp(t *testing.T) {
	c, _ := NewContinuous(&counter{}, 1, Linear)
	f := c.Next(5.5)
	if c.Rotations() != 5 {
		t.Fatalf("rotations = %d, want 5", c.Rotations())
	}
	// origin is field 5, goal is field 6.
	if math.Abs(f.Data[0]-5.5) > 1e-12 {
		t.Fatalf("frame value %f, want 5.5", f.Data[0])
	}
}

func TestNewContinuousRejectsBadPeriod(t *testing.T) {
	if _, err := NewContinuous(&counter{}, 0, nil); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestCircularBounce(t *testing.T) {
	c, err := NewCircular(&counter{}, 1, Linear, 3, Bounce)
	if err != nil {
		t.Fatal(err)
	}
	var seen []float64
	for i := 0; i < 6; i++ {
		seen = append(seen, c.Next(1).Data[0])
	}
	want := []float64{1, 2, 1, 0, 1, 2}
	if !slices.Equal(seen, want) {
		t.Fatalf("bounce order %v, want %v", seen, want)
	}
}

func TestCircularRestart(t *testing.T) {
	c, err := NewCircular(&counter{}, 1, Linear, 3, Restart)
	if err != nil {
		t.Fatal(err)
	}
	var seen []float64
	for i := 0; i < 5; i++ {
		seen = append(seen, c.Next(1).Data[0])
	}
	want := []float64{1, 2, 0, 1, 2}
	if !slices.Equal(seen, want) {
		t.Fatalf("restart order %v, want %v", seen, want)
	}
	if _, err := NewCircular(&counter{}, 1, Linear, 1, Restart); err == nil {
		t.Fatal("expected error for a one-frame sequence")
	}
}

func TestSingleHoldsField(t *testing.T) {
	s := NewSingle(&counter{n: 4})
	if s.Next(10).Data[0] != 4 || s.Next(0).Data[0] != 4 {
		t.Fatal("single stream should hold its only field")
	}
}

func TestInterpolationByName(t *testing.T) {
	if _, err := InterpolationByName("linear"); err != nil {
		t.Fatal(err)
	}
	if _, err := InterpolationByName("cubic"); !errors.Is(err, ErrUnknownInterpolation) {
		t.Fatalf("expected ErrUnknownInterpolation, got %v", err)
	}
}
