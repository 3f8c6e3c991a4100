package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"

	"stimgen/internal/core"
	"stimgen/internal/render"
)

// Images writes each frame as a numbered PNG file.
type Images struct {
	dir    string
	prefix string
	scale  int

	filter *gift.GIFT
	fsize  core.Size
	n      int
}

// NewImages creates dir if needed. A scale above 1 enlarges frames with
// nearest-neighbour resampling so individual samples stay visible.
func NewImages(dir, prefix string, scale int) (*Images, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", dir, err)
	}
	return &Images{dir: dir, prefix: prefix, scale: max(scale, 1)}, nil
}

// Path returns the file name of frame i.
func (im *Images) Path(i int) string {
	return filepath.Join(im.dir, fmt.Sprintf("%s_%05d.png", im.prefix, i))
}

func (im *Images) upscale(f *core.Frame, img image.Image) image.Image {
	if im.scale == 1 {
		return img
	}
	if im.filter == nil || im.fsize != f.Size() {
		im.filter = gift.New(gift.Resize(f.W*im.scale, f.H*im.scale, gift.NearestNeighborResampling))
		im.fsize = f.Size()
	}
	dst := image.NewGray(im.filter.Bounds(img.Bounds()))
	im.filter.Draw(dst, img)
	return dst
}

// WriteFrame writes f as the next numbered PNG.
func (im *Images) WriteFrame(f *core.Frame) error {
	img := im.upscale(f, render.ToGray(f))
	path := im.Path(im.n)
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	im.n++
	return out.Close()
}

// Close is a no-op; every file is closed after writing.
func (im *Images) Close() error { return nil }
