// Package composite blends moving patches additively into a base stream.
package composite

import (
	"errors"
	"math"

	"stimgen/internal/core"
	"stimgen/internal/patch"
)

// DefaultContrast is the weight patches are blended with.
const DefaultContrast = 0.5

// PositionFunc advances by dt and returns the top-left corner of a patch in
// base-frame pixels. Fractional positions are rounded.
type PositionFunc func(dt float64) (x, y float64)

// Static always places the patch at (x, y).
func Static(x, y float64) PositionFunc {
	return func(float64) (float64, float64) { return x, y }
}

// Linear starts at (x0, y0) and moves by (vx, vy) pixels per time unit.
func Linear(x0, y0, vx, vy float64) PositionFunc {
	ux, uy := patch.NewLin(x0, vx), patch.NewLin(y0, vy)
	return func(dt float64) (float64, float64) { return ux.Update(dt), uy.Update(dt) }
}

// Orbit moves around (cx, cy) with the given radius and period, starting at
// (cx, cy+radius).
func Orbit(cx, cy, radius, period float64) PositionFunc {
	ux := patch.NewCircular(cx, radius, period)
	uy := patch.NewCircular(cy, radius, period)
	// y lags x by a quarter period
	uy.Update(period / 4)
	return func(dt float64) (float64, float64) { return ux.Update(dt), uy.Update(dt) }
}

// Placement pairs a patch source with its trajectory.
type Placement struct {
	Patch    core.Source
	Position PositionFunc
}

// Patched composites placements onto a base source.
type Patched struct {
	base       core.Source
	placements []Placement
	contrast   float64

	positions [][2]int
	frame     *core.Frame
}

// NewPatched builds a compositor. A contrast of zero selects DefaultContrast.
func NewPatched(base core.Source, contrast float64, placements ...Placement) (*Patched, error) {
	if base == nil {
		return nil, errors.New("compositor needs a base source")
	}
	for _, p := range placements {
		if p.Patch == nil || p.Position == nil {
			return nil, errors.New("placement needs a patch and a position")
		}
	}
	if contrast == 0 {
		contrast = DefaultContrast
	}
	return &Patched{
		base:       base,
		placements: placements,
		contrast:   contrast,
		positions:  make([][2]int, len(placements)),
	}, nil
}

// Size reports the base dimensions.
func (p *Patched) Size() core.Size { return p.base.Size() }

// Contrast reports the blend weight.
func (p *Patched) Contrast() float64 { return p.contrast }

// Positions reports the rounded patch positions used for the latest frame.
func (p *Patched) Positions() [][2]int { return append([][2]int(nil), p.positions...) }

// Next advances the base, every patch and every trajectory by dt, blends the
// patches and clips the result into [0, 1]. The result is never renormalized.
func (p *Patched) Next(dt float64) *core.Frame {
	if p.frame != nil && dt <= 0 {
		return p.frame.Clone()
	}
	out := p.base.Next(dt)
	for i, pl := range p.placements {
		patchFrame := pl.Patch.Next(dt)
		fx, fy := pl.Position(dt)
		x, y := int(math.Round(fx)), int(math.Round(fy))
		p.positions[i] = [2]int{x, y}
		Apply(out, patchFrame, x, y, p.contrast)
	}
	out.Clip(0, 1)
	p.frame = out
	return out.Clone()
}

// Apply adds weight*src into dst with the top-left corner of src at (x, y).
// Only the overlapping region contributes; without overlap dst is unchanged.
func Apply(dst, src *core.Frame, x, y int, weight float64) {
	x1, y1 := max(x, 0), max(y, 0)
	x2, y2 := min(x+src.W, dst.W), min(y+src.H, dst.H)
	if x1 >= x2 || y1 >= y2 {
		return
	}
	for dy := y1; dy < y2; dy++ {
		row := dst.Row(dy)
		srow := src.Row(dy - y)
		for dx := x1; dx < x2; dx++ {
			row[dx] += weight * srow[dx-x]
		}
	}
}

// Parameters merges the base and patch parameters with the compositor state.
func (p *Patched) Parameters() core.ParameterSnapshot {
	snaps := []core.ParameterSnapshot{core.SnapshotOf(p.base)}
	group := core.ParameterGroup{Name: "Compositor", Params: []core.Parameter{
		core.FloatParam("contrast", "Contrast", p.contrast),
		core.IntParam("patches", "Patches", len(p.placements)),
	}}
	snaps = append(snaps, core.ParameterSnapshot{Groups: []core.ParameterGroup{group}})
	for _, pl := range p.placements {
		snaps = append(snaps, core.SnapshotOf(pl.Patch))
	}
	return core.Merge(snaps...)
}
