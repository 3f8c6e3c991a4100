// Package noise synthesizes static and running 2D noise fields. Coloured
// noise is produced by shaping the Fourier spectrum of a white field with a
// radially symmetric 1/|ω|^k mask.
package noise

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"stimgen/internal/core"
)

// fftFreq returns the sample frequencies of an n-point DFT in standard
// (unshifted) order: 0, 1/n, ..., then the negative bins.
func fftFreq(n int) []float64 {
	out := make([]float64, n)
	pos := (n-1)/2 + 1
	for k := 0; k < n; k++ {
		if k < pos {
			out[k] = float64(k) / float64(n)
		} else {
			out[k] = float64(k-n) / float64(n)
		}
	}
	return out
}

// centeredFreq is fftFreq with the zero bin moved to index n/2.
func centeredFreq(n int) []float64 {
	raw := fftFreq(n)
	out := make([]float64, n)
	for i, v := range raw {
		out[(i+n/2)%n] = v
	}
	return out
}

// shift2 moves the zero-frequency bin of m to the centre. With inverse set it
// undoes that move.
func shift2[T any](m [][]T, inverse bool) [][]T {
	h := len(m)
	if h == 0 {
		return m
	}
	w := len(m[0])
	out := make([][]T, h)
	for y := range out {
		out[y] = make([]T, w)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if inverse {
				out[y][x] = m[(y+h/2)%h][(x+w/2)%w]
			} else {
				out[(y+h/2)%h][(x+w/2)%w] = m[y][x]
			}
		}
	}
	return out
}

// Weights builds the centred 1/|ω|^exponent mask for a w×h grid. The zero
// frequency bin takes the smallest non-zero weight; when no other bin exists
// (a 1×1 grid) it is 1.
func Weights(w, h int, exponent float64) [][]float64 {
	fx := centeredFreq(w)
	fy := centeredFreq(h)
	mask := make([][]float64, h)
	minWeight := math.Inf(1)
	zeroX, zeroY := -1, -1
	for y := 0; y < h; y++ {
		mask[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			omega := math.Hypot(fx[x], fy[y])
			if omega == 0 {
				zeroX, zeroY = x, y
				continue
			}
			weight := math.Pow(omega, -exponent)
			mask[y][x] = weight
			minWeight = math.Min(minWeight, weight)
		}
	}
	if zeroY >= 0 {
		if math.IsInf(minWeight, 1) {
			minWeight = 1
		}
		mask[zeroY][zeroX] = minWeight
	}
	return mask
}

// shape multiplies the spectrum of field by the unshifted mask and returns the
// real part of the inverse transform, clipped to ±2σ and normalized to [0, 1].
func shape(field *core.Frame, mask [][]float64) *core.Frame {
	rows := make([][]float64, field.H)
	for y := range rows {
		rows[y] = field.Row(y)
	}
	spec := fft.FFT2Real(rows)
	for y := range spec {
		for x := range spec[y] {
			spec[y][x] *= complex(mask[y][x], 0)
		}
	}
	back := fft.IFFT2(spec)
	out := core.NewFrame(field.W, field.H)
	for y := range back {
		for x, v := range back[y] {
			out.Data[y*out.W+x] = real(v)
		}
	}
	clipStd(out, 2)
	out.Normalize()
	return out
}

func clipStd(f *core.Frame, k float64) {
	sigma := f.Std()
	f.Clip(-k*sigma, k*sigma)
}

// Spectrum returns the centred amplitude spectrum of the mean-removed frame,
// normalized to [0, 1].
func Spectrum(f *core.Frame) *core.Frame {
	mean := f.Mean()
	rows := make([][]float64, f.H)
	for y := range rows {
		rows[y] = make([]float64, f.W)
		for x, v := range f.Row(y) {
			rows[y][x] = v - mean
		}
	}
	spec := shift2(fft.FFT2Real(rows), false)
	out := core.NewFrame(f.W, f.H)
	for y := range spec {
		for x, v := range spec[y] {
			out.Data[y*out.W+x] = cmplx.Abs(v)
		}
	}
	out.Normalize()
	return out
}
