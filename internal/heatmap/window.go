// Package heatmap evaluates a scalar function over sliding windows of a frame
// and blends the results into a full-resolution map.
package heatmap

import "fmt"

// Window is the half-open pixel rectangle [X1,X2) x [Y1,Y2).
type Window struct {
	X1, X2, Y1, Y2 int
}

// Width reports X2 - X1.
func (w Window) Width() int { return w.X2 - w.X1 }

// Height reports Y2 - Y1.
func (w Window) Height() int { return w.Y2 - w.Y1 }

// Dims returns the number of grid corners along an extent.
func Dims(extent, step int) int { return (extent+step-1)/step + 1 }

// WindowIndices lists the windows of a w x h frame in x-major order. Windows
// slide from step-size in increments of step, so window (i, j) ends on the grid
// corner ((i+1)*step, (j+1)*step) and the first row and column are clipped by
// the frame edge.
func WindowIndices(w, h, size, step int) ([]Window, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", w, h)
	}
	if size <= 0 || step <= 0 {
		return nil, fmt.Errorf("window size and step must be positive, got %d/%d", size, step)
	}
	cols, rows := Dims(w, step), Dims(h, step)
	out := make([]Window, 0, cols*rows)
	for i := 0; i < cols; i++ {
		x1, x2 := span(step-size+i*step, size, w)
		for j := 0; j < rows; j++ {
			y1, y2 := span(step-size+j*step, size, h)
			out = append(out, Window{X1: x1, X2: x2, Y1: y1, Y2: y2})
		}
	}
	return out, nil
}

// span clamps [start, start+size) into [0, n) and keeps at least one sample.
func span(start, size, n int) (int, int) {
	a := min(max(start, 0), n-1)
	b := min(max(start+size, a+1), n)
	return a, b
}
