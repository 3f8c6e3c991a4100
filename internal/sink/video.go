package sink

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"stimgen/internal/core"
	"stimgen/internal/render"
)

// JPEGQuality is the encoder quality of video frames.
const JPEGQuality = 95

// Video writes frames into an MJPEG AVI file.
type Video struct {
	path   string
	size   core.Size
	writer mjpeg.AviWriter
	buf    bytes.Buffer
	frames int
}

// NewVideo creates the AVI file at path.
func NewVideo(path string, size core.Size, fps int) (*Video, error) {
	w, err := mjpeg.New(path, int32(size.W), int32(size.H), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &Video{path: path, size: size, writer: w}, nil
}

// WriteFrame encodes f as one JPEG frame.
func (v *Video) WriteFrame(f *core.Frame) error {
	if f.W != v.size.W || f.H != v.size.H {
		return fmt.Errorf("video %s: frame %dx%d does not match %dx%d", v.path, f.W, f.H, v.size.W, v.size.H)
	}
	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, render.ToGray(f), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("video %s: encode frame %d: %w", v.path, v.frames, err)
	}
	if err := v.writer.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("video %s: add frame %d: %w", v.path, v.frames, err)
	}
	v.frames++
	return nil
}

// Frames reports how many frames were written.
func (v *Video) Frames() int { return v.frames }

// Close finalizes the AVI index.
func (v *Video) Close() error { return v.writer.Close() }
