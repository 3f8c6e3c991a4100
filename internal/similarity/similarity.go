// Package similarity implements the SSIM family of frame comparisons.
package similarity

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"stimgen/internal/core"
)

// Stabilizer coefficients for the luminance and contrast terms.
const (
	K1 = 0.01
	K2 = 0.03
)

// Luminance is the mean sample value.
func Luminance(f *core.Frame) float64 { return f.Mean() }

// RMSContrast is the population standard deviation.
func RMSContrast(f *core.Frame) float64 { return f.Std() }

// Covariance is the population covariance of two equally sized frames.
func Covariance(a, b *core.Frame) float64 { return core.Covariance(a, b) }

// DynamicRange is max - min.
func DynamicRange(f *core.Frame) float64 { return f.DynamicRange() }

// Stabilizers returns C1 and C2 for the larger dynamic range of a and b,
// floored at 1.
func Stabilizers(a, b *core.Frame) (c1, c2 float64) {
	r := max(DynamicRange(a), DynamicRange(b), 1)
	return StabilizersFor(r)
}

// StabilizersFor returns C1 and C2 for a known dynamic range.
func StabilizersFor(r float64) (c1, c2 float64) {
	return (K1 * r) * (K1 * r), (K2 * r) * (K2 * r)
}

// LuminanceComparison is (2μaμb + c1) / (μa² + μb² + c1).
func LuminanceComparison(la, lb, c1 float64) float64 {
	return (2*la*lb + c1) / (la*la + lb*lb + c1)
}

// ContrastComparison is (2σaσb + c2) / (σa² + σb² + c2).
func ContrastComparison(ca, cb, c2 float64) float64 {
	return (2*ca*cb + c2) / (ca*ca + cb*cb + c2)
}

// StructureComparison is (cov + c3) / (σaσb + c3).
func StructureComparison(cov, ca, cb, c3 float64) float64 {
	return (cov + c3) / (ca*cb + c3)
}

// PhaseInvariantStructure compares the Fourier amplitude spectra of the
// mean-removed frames. Amplitudes are scaled by 1/N so the ratio matches the
// covariance form: identical spectra give 1 regardless of spatial phase.
// Frames of different shape share no spectrum and give 0.
func PhaseInvariantStructure(a, b *core.Frame, c3 float64) float64 {
	if a.W != b.W || a.H != b.H {
		return 0
	}
	sa, sb := amplitude(a), amplitude(b)
	n := float64(len(a.Data))
	var dot, na, nb float64
	for i := range sa {
		dot += sa[i] * sb[i]
		na += sa[i] * sa[i]
		nb += sb[i] * sb[i]
	}
	return (dot/(n*n) + c3) / (math.Sqrt(na)*math.Sqrt(nb)/(n*n) + c3)
}

func amplitude(f *core.Frame) []float64 {
	mean := f.Mean()
	rows := make([][]float64, f.H)
	for y := range rows {
		rows[y] = make([]float64, f.W)
		for x, v := range f.Row(y) {
			rows[y][x] = v - mean
		}
	}
	spec := fft.FFT2Real(rows)
	out := make([]float64, 0, f.W*f.H)
	for _, row := range spec {
		for _, c := range row {
			out = append(out, cmplx.Abs(c))
		}
	}
	return out
}

// Term is one comparison value with its exponent weight.
type Term struct {
	Value, Weight float64
}

// Combine multiplies sign(v)·|v|^w over all terms, so negative intermediate
// values never produce NaN.
func Combine(terms ...Term) float64 {
	out := 1.0
	for _, t := range terms {
		v := math.Pow(math.Abs(t.Value), t.Weight)
		if t.Value < 0 {
			v = -v
		}
		out *= v
	}
	return out
}

// Weights are the exponents of the luminance, contrast and structure terms.
type Weights struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DefaultWeights give the unweighted SSIM.
var DefaultWeights = Weights{Alpha: 1, Beta: 1, Gamma: 1}

// OrDefault replaces an all-zero weight set with DefaultWeights.
func (w Weights) OrDefault() Weights {
	if w == (Weights{}) {
		return DefaultWeights
	}
	return w
}

// Stats caches the per-frame statistics needed by the comparison terms.
type Stats struct {
	Luminance float64
	Contrast  float64
}

// StatsOf computes the luminance and RMS contrast of f.
func StatsOf(f *core.Frame) Stats {
	return Stats{Luminance: Luminance(f), Contrast: RMSContrast(f)}
}

// Score combines the three terms for frames with precomputed statistics.
// phaseInvariant selects the Fourier amplitude structure term. Frames of
// different shape score 0 in either mode.
func Score(a, b *core.Frame, sa, sb Stats, c1, c2 float64, w Weights, phaseInvariant bool) float64 {
	if a.W != b.W || a.H != b.H {
		return 0
	}
	var structure float64
	if phaseInvariant {
		structure = PhaseInvariantStructure(a, b, c2/2)
	} else {
		structure = StructureComparison(Covariance(a, b), sa.Contrast, sb.Contrast, c2/2)
	}
	return Combine(
		Term{LuminanceComparison(sa.Luminance, sb.Luminance, c1), w.Alpha},
		Term{ContrastComparison(sa.Contrast, sb.Contrast, c2), w.Beta},
		Term{structure, w.Gamma},
	)
}

// SSIM is the single-window structural similarity of two equally sized frames.
func SSIM(a, b *core.Frame, w Weights) float64 {
	c1, c2 := Stabilizers(a, b)
	return Score(a, b, StatsOf(a), StatsOf(b), c1, c2, w, false)
}

// CWSSIM is SSIM with the phase-invariant structure term.
func CWSSIM(a, b *core.Frame, w Weights) float64 {
	c1, c2 := Stabilizers(a, b)
	return Score(a, b, StatsOf(a), StatsOf(b), c1, c2, w, true)
}

// DSSIM is the structural dissimilarity (1 - SSIM) / 2 with default weights.
func DSSIM(a, b *core.Frame) float64 {
	return (1 - SSIM(a, b, DefaultWeights)) / 2
}
