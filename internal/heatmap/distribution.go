package heatmap

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"stimgen/internal/core"
)

// DistributionBins is the number of percentile bins used by
// ProbabilisticDistribution.
const DistributionBins = 10

// ProbabilisticDistribution replaces each score in place by the fraction of
// the decile edges it reaches, mapping raw scores of any scale into [0, 1].
// The highest score always maps to 1; a constant input maps to 0.
func ProbabilisticDistribution(values []float64) {
	if len(values) == 0 {
		return
	}
	edges := make([]float64, 0, DistributionBins)
	for k := 1; k <= DistributionBins; k++ {
		p, err := stats.PercentileNearestRank(values, float64(k)*100/DistributionBins)
		if err != nil {
			return
		}
		edges = append(edges, p)
	}
	if lo, _ := stats.Min(values); lo == edges[len(edges)-1] {
		clear(values)
		return
	}
	for i, v := range values {
		n := 0
		for _, e := range edges {
			if v >= e {
				n++
			}
		}
		values[i] = float64(n) / DistributionBins
	}
}

// Percentiles returns the requested percentiles of all samples in f.
func Percentiles(f *core.Frame, ps ...float64) ([]float64, error) {
	out := make([]float64, len(ps))
	for i, p := range ps {
		v, err := stats.PercentileNearestRank(f.Data, p)
		if err != nil {
			return nil, fmt.Errorf("percentile %v: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// Detection is the localization quality of a heat map thresholded at one
// percentile.
type Detection struct {
	Percentile float64
	// Recall is the share of target pixels at or above the threshold.
	Recall float64
	// FPR is the share of non-target pixels at or above the threshold.
	FPR float64
}

// Evaluate thresholds hmap at each percentile and scores it against the
// target rectangle.
func Evaluate(hmap *core.Frame, target Window, ps ...float64) ([]Detection, error) {
	target.X1, target.X2 = min(max(target.X1, 0), hmap.W), min(max(target.X2, 0), hmap.W)
	target.Y1, target.Y2 = min(max(target.Y1, 0), hmap.H), min(max(target.Y2, 0), hmap.H)
	targetSize := max(target.Width(), 0) * max(target.Height(), 0)
	rest := len(hmap.Data) - targetSize

	thresholds, err := Percentiles(hmap, ps...)
	if err != nil {
		return nil, err
	}
	out := make([]Detection, len(ps))
	for i, th := range thresholds {
		var hit, total int
		for y := 0; y < hmap.H; y++ {
			for x, v := range hmap.Row(y) {
				if v < th {
					continue
				}
				total++
				if x >= target.X1 && x < target.X2 && y >= target.Y1 && y < target.Y2 {
					hit++
				}
			}
		}
		d := Detection{Percentile: ps[i]}
		if targetSize > 0 {
			d.Recall = float64(hit) / float64(targetSize)
		}
		if rest > 0 {
			d.FPR = float64(total-hit) / float64(rest)
		}
		out[i] = d
	}
	return out, nil
}
