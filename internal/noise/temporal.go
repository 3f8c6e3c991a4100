package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"

	"stimgen/internal/core"
)

// ErrSequenceExhausted reports that a pre-rendered sequence was asked for a
// frame past its fixed length.
var ErrSequenceExhausted = errors.New("pre-rendered noise sequence exhausted")

// DefaultTimeScale stretches the temporal frequency axis relative to the
// spatial ones so that the field changes slowly between frames.
const DefaultTimeScale = 100

// Temporal treats time as a third synthesized axis. The whole sequence of
// length*fps frames is rendered at construction and cannot be extended; once
// exhausted, Next keeps returning the final frame and Err reports
// ErrSequenceExhausted. Output samples are normalized to [0, 1] over the whole
// volume.
type Temporal struct {
	w, h    int
	length  float64
	frames  []*core.Frame
	elapsed float64
	index   int
	started bool
	err     error
}

// NewTemporal renders a w×h×(length·fps) pink volume.
func NewTemporal(w, h int, length float64, fps int, rng *core.RNG) (*Temporal, error) {
	count := int(math.Round(length * float64(fps)))
	if count <= 0 {
		return nil, fmt.Errorf("temporal noise needs at least one frame (length=%v fps=%d)", length, fps)
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	data := make([]complex128, count*h*w)
	for i := range data {
		data[i] = complex(rng.Uniform(-1, 1), 0)
	}
	dims := []int{count, h, w}
	spec := fft.FFTN(dsputils.MakeMatrix(data, dims))

	ft, fy, fx := fftFreq(count), fftFreq(h), fftFreq(w)
	minOmega := math.Inf(1)
	for _, t := range ft {
		for _, y := range fy {
			for _, x := range fx {
				if o := math.Sqrt(x*x + y*y + t*t*DefaultTimeScale*DefaultTimeScale); o > 0 {
					minOmega = math.Min(minOmega, o)
				}
			}
		}
	}
	if math.IsInf(minOmega, 1) {
		minOmega = 1
	}
	for t := range ft {
		tt := ft[t] * DefaultTimeScale
		for y := range fy {
			for x := range fx {
				omega := math.Sqrt(fx[x]*fx[x] + fy[y]*fy[y] + tt*tt)
				if omega == 0 {
					omega = minOmega
				}
				idx := []int{t, y, x}
				spec.SetValue(spec.Value(idx)*complex(1/omega, 0), idx)
			}
		}
	}
	back := fft.IFFTN(spec)

	volume := core.NewFrame(w, h*count)
	for t := 0; t < count; t++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				volume.Data[(t*h+y)*w+x] = real(back.Value([]int{t, y, x}))
			}
		}
	}
	clipStd(volume, 2)
	volume.Normalize()

	frames := make([]*core.Frame, count)
	for t := range frames {
		frames[t] = volume.Sub(0, w, t*h, (t+1)*h)
	}
	return &Temporal{w: w, h: h, length: length, frames: frames}, nil
}

// Size reports the frame dimensions.
func (p *Temporal) Size() core.Size { return core.Size{W: p.w, H: p.h} }

// Len returns the number of pre-rendered frames.
func (p *Temporal) Len() int { return len(p.frames) }

// Next advances the playback clock by dt.
func (p *Temporal) Next(dt float64) *core.Frame {
	if p.started && dt <= 0 {
		return p.frames[p.index].Clone()
	}
	p.started = true
	p.elapsed += max(dt, 0)
	i := int(p.elapsed / p.length * float64(len(p.frames)))
	if i >= len(p.frames) {
		i = len(p.frames) - 1
		p.err = ErrSequenceExhausted
	}
	p.index = i
	return p.frames[i].Clone()
}

// Err reports whether playback ran past the rendered sequence.
func (p *Temporal) Err() error { return p.err }
