package core

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// DominantPeriod returns the period, in samples, of the strongest non-DC
// frequency component of profile. It returns 0 when the profile is too short
// or carries no oscillation.
func DominantPeriod(profile []float64) float64 {
	n := len(profile)
	if n < 4 {
		return 0
	}
	mean := stat.Mean(profile, nil)
	centered := make([]float64, n)
	for i, v := range profile {
		centered[i] = v - mean
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	best, bestMag := 0, 0.0
	for k := 1; k < len(coeffs); k++ {
		if mag := cmplx.Abs(coeffs[k]); mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if best == 0 || bestMag < 1e-12 {
		return 0
	}
	return float64(n) / float64(best)
}

// ColumnMeans returns the mean of each column of f.
func ColumnMeans(f *Frame) []float64 {
	out := make([]float64, f.W)
	for y := 0; y < f.H; y++ {
		row := f.Row(y)
		for x, v := range row {
			out[x] += v
		}
	}
	for x := range out {
		out[x] /= float64(f.H)
	}
	return out
}
