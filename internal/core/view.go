package core

// View is a read-only window on a shared source: Next always calls the
// wrapped source with dt = 0, so several consumers can observe one frame per
// tick while a single driver advances time.
type View struct {
	src Source
}

// NewView wraps src.
func NewView(src Source) *View { return &View{src: src} }

// Size reports the wrapped source's dimensions.
func (v *View) Size() Size { return v.src.Size() }

// Next returns the wrapped source's current frame without advancing it.
func (v *View) Next(float64) *Frame { return v.src.Next(0) }
