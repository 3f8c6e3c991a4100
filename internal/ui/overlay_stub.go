//go:build !ebiten

package ui

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(any, any) *Overlay { return &Overlay{} }

// Toggle is a no-op in headless builds.
func (o *Overlay) Toggle() {}

// Update is a no-op in headless builds.
func (o *Overlay) Update(float64) {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, int) {}
