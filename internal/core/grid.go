package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Frame stores a 2D grid of luminance samples in row-major order.
type Frame struct {
	W, H int
	Data []float64
}

// NewFrame allocates a zeroed frame with the given dimensions. Non-positive
// dimensions are clamped to 1; constructors that take sizes from users check
// them first.
func NewFrame(w, h int) *Frame {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Frame{W: w, H: h, Data: make([]float64, w*h)}
}

// FrameFrom wraps rows of equal length into a frame. The rows are copied.
func FrameFrom(rows [][]float64) *Frame {
	if len(rows) == 0 {
		return NewFrame(1, 1)
	}
	f := NewFrame(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(f.Data[y*f.W:(y+1)*f.W], row)
	}
	return f
}

// Size reports the frame dimensions.
func (f *Frame) Size() Size { return Size{W: f.W, H: f.H} }

// Index returns the linear slice index for coordinates (x, y).
func (f *Frame) Index(x, y int) int { return y*f.W + x }

// At returns the sample at (x, y).
func (f *Frame) At(x, y int) float64 { return f.Data[y*f.W+x] }

// Set stores v at (x, y).
func (f *Frame) Set(x, y int, v float64) { f.Data[y*f.W+x] = v }

// Row exposes row y of the backing slice.
func (f *Frame) Row(y int) []float64 { return f.Data[y*f.W : (y+1)*f.W] }

// Clone returns an independent copy.
func (f *Frame) Clone() *Frame {
	return &Frame{W: f.W, H: f.H, Data: append([]float64(nil), f.Data...)}
}

// Sub copies the window [x1,x2) x [y1,y2), clamped to the frame bounds.
func (f *Frame) Sub(x1, x2, y1, y2 int) *Frame {
	x1, x2 = clampRange(x1, x2, f.W)
	y1, y2 = clampRange(y1, y2, f.H)
	out := &Frame{W: x2 - x1, H: y2 - y1, Data: make([]float64, (x2-x1)*(y2-y1))}
	for y := y1; y < y2; y++ {
		copy(out.Data[(y-y1)*out.W:(y-y1+1)*out.W], f.Data[y*f.W+x1:y*f.W+x2])
	}
	return out
}

func clampRange(a, b, n int) (int, int) {
	a = min(max(a, 0), n)
	b = min(max(b, a), n)
	return a, b
}

// Fill sets every sample to v.
func (f *Frame) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Clip clamps every sample into [lo, hi].
func (f *Frame) Clip(lo, hi float64) {
	for i, v := range f.Data {
		if v < lo {
			f.Data[i] = lo
		} else if v > hi {
			f.Data[i] = hi
		}
	}
}

// Normalize rescales the samples in place into [0, 1]. A constant frame
// becomes all zeros.
func (f *Frame) Normalize() {
	lo := f.Min()
	floats.AddConst(-lo, f.Data)
	hi := f.Max()
	if hi == 0 {
		return
	}
	floats.Scale(1/hi, f.Data)
}

// Normalized returns a [0, 1] copy, leaving f untouched.
func (f *Frame) Normalized() *Frame {
	out := f.Clone()
	out.Normalize()
	return out
}

// Min returns the smallest sample.
func (f *Frame) Min() float64 { return floats.Min(f.Data) }

// Max returns the largest sample.
func (f *Frame) Max() float64 { return floats.Max(f.Data) }

// DynamicRange is Max - Min.
func (f *Frame) DynamicRange() float64 { return f.Max() - f.Min() }

// Mean returns the average sample value.
func (f *Frame) Mean() float64 { return stat.Mean(f.Data, nil) }

// Variance returns the population variance.
func (f *Frame) Variance() float64 {
	_, v := stat.PopMeanVariance(f.Data, nil)
	return v
}

// Std returns the population standard deviation (RMS contrast).
func (f *Frame) Std() float64 { return math.Sqrt(f.Variance()) }

// Equal reports whether both frames have the same shape and samples.
func (f *Frame) Equal(o *Frame) bool {
	if f.W != o.W || f.H != o.H {
		return false
	}
	return floats.Equal(f.Data, o.Data)
}

// Covariance returns the population covariance of two equally sized frames.
func Covariance(a, b *Frame) float64 {
	n := len(a.Data)
	if n < 2 || n != len(b.Data) {
		return 0
	}
	return stat.Covariance(a.Data, b.Data, nil) * float64(n-1) / float64(n)
}

// Lerp blends a towards b by t per sample into a new frame.
func Lerp(a, b *Frame, t float64) *Frame {
	out := NewFrame(a.W, a.H)
	for i := range out.Data {
		out.Data[i] = a.Data[i] + (b.Data[i]-a.Data[i])*t
	}
	return out
}
