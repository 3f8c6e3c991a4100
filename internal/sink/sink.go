// Package sink writes frame streams and per-tick scores to files.
package sink

import (
	"context"
	"errors"
	"fmt"

	"stimgen/internal/core"
)

var (
	// ErrUnknownSink is returned for sink kinds NewTable and NewFrameSink do
	// not know.
	ErrUnknownSink = errors.New("unknown sink")
	// ErrUnsupportedBackend is returned when a sink needs a build tag that
	// was not set.
	ErrUnsupportedBackend = errors.New("sink backend unavailable in this build")
)

// Pull advances a pipeline by dt and returns the frame to record.
type Pull func(dt float64) *core.Frame

// FrameSink consumes [0, 1] frames.
type FrameSink interface {
	WriteFrame(f *core.Frame) error
	Close() error
}

// Run calls pull fps*seconds times with dt = 1/fps and hands every frame to
// each sink. It returns the number of frames written.
func Run(ctx context.Context, pull Pull, fps, seconds int, sinks ...FrameSink) (int, error) {
	if fps <= 0 || seconds <= 0 {
		return 0, fmt.Errorf("fps and length must be positive, got %d/%d", fps, seconds)
	}
	dt := 1 / float64(fps)
	total := fps * seconds
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		f := pull(dt)
		for _, s := range sinks {
			if err := s.WriteFrame(f); err != nil {
				return i, err
			}
		}
	}
	return total, nil
}

// NewFrameSink opens a frame sink by kind: "video" writes an MJPEG AVI to
// path, "images" writes numbered PNG files into the directory path.
func NewFrameSink(kind, path string, size core.Size, fps, scale int) (FrameSink, error) {
	switch kind {
	case "", "video":
		return NewVideo(path, size, fps)
	case "images":
		return NewImages(path, "frame", scale)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSink, kind)
	}
}

// CloseAll closes every sink and returns the first error.
func CloseAll(sinks ...FrameSink) error {
	var first error
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
