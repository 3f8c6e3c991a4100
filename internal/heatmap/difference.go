package heatmap

import (
	"errors"
	"math"

	"stimgen/internal/core"
)

// DiffVariant selects how frame-to-frame change is turned into a motion map.
type DiffVariant int

const (
	// DiffThreshold subtracts the change a scene of the observed dynamic
	// range may undergo naturally within dt, given the scene period. This is
	// the variant used for localization runs.
	DiffThreshold DiffVariant = iota
	// DiffPure is the raw absolute difference. Kept as a historical variant.
	DiffPure
	// DiffAverage subtracts the mean absolute difference of the frame. Kept as
	// a historical variant.
	DiffAverage
)

func (v DiffVariant) String() string {
	switch v {
	case DiffPure:
		return "pure"
	case DiffAverage:
		return "avg"
	default:
		return "threshold"
	}
}

// Difference is a frame source emitting the change of another source between
// consecutive calls.
type Difference struct {
	src     core.Source
	variant DiffVariant
	period  float64

	last  *core.Frame
	frame *core.Frame
}

// NewDifference wraps src. period is the time in which the scene may change
// across its whole range; only DiffThreshold uses it.
func NewDifference(src core.Source, variant DiffVariant, period float64) (*Difference, error) {
	if src == nil {
		return nil, errors.New("difference needs a source")
	}
	if variant == DiffThreshold && period <= 0 {
		return nil, errors.New("threshold difference needs a positive period")
	}
	return &Difference{src: src, variant: variant, period: period, last: src.Next(0)}, nil
}

// Size reports the frame dimensions.
func (d *Difference) Size() core.Size { return d.src.Size() }

// Variant reports the difference formula.
func (d *Difference) Variant() DiffVariant { return d.variant }

// Next pulls the next frame from the wrapped source with dt and returns its
// change from the previous one.
func (d *Difference) Next(dt float64) *core.Frame {
	if d.frame != nil && dt <= 0 {
		return d.frame.Clone()
	}
	next := d.src.Next(dt)
	diff := core.NewFrame(next.W, next.H)
	for i := range diff.Data {
		diff.Data[i] = math.Abs(next.Data[i] - d.last.Data[i])
	}
	var trim float64
	switch d.variant {
	case DiffThreshold:
		trim = next.DynamicRange() * max(dt, 0) / d.period
	case DiffAverage:
		trim = diff.Mean()
	}
	if trim > 0 {
		for i, v := range diff.Data {
			diff.Data[i] = max(v-trim, 0)
		}
	}
	d.last = next
	d.frame = diff
	return diff.Clone()
}
