package providers

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/sdfgraph/voxelgraph/interval"
)

// RedChannelImage wraps a decoded image.Image, exposing its red channel as
// the Image2D opcode's sample source. Format support comes from the
// standard PNG/JPEG/GIF decoders plus golang.org/x/image's BMP and TIFF
// decoders, all registered for side-effecting image.Decode dispatch.
type RedChannelImage struct {
	img     image.Image
	w, h    int
	rangeLo float32
	rangeHi float32
}

// DecodeRedChannelImage decodes r via the registered image codecs and bakes
// its red-channel range once.
func DecodeRedChannelImage(r io.Reader) (*RedChannelImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewRedChannelImage(img), nil
}

// NewRedChannelImage wraps an already-decoded image and bakes its
// red-channel range.
func NewRedChannelImage(img image.Image) *RedChannelImage {
	b := img.Bounds()
	ri := &RedChannelImage{img: img, w: b.Dx(), h: b.Dy()}
	lo, hi := float32(1), float32(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := redAt(img, x, y)
			if x == b.Min.X && y == b.Min.Y {
				lo, hi = v, v
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	ri.rangeLo, ri.rangeHi = lo, hi
	return ri
}

func redAt(img image.Image, x, y int) float32 {
	r, _, _, _ := img.At(x, y).RGBA()
	return float32(r) / 0xffff
}

func (ri *RedChannelImage) Width() int  { return ri.w }
func (ri *RedChannelImage) Height() int { return ri.h }

// PixelRed samples the red channel at (x, y), wrapping both coordinates via
// non-negative modulo per the image provider contract.
func (ri *RedChannelImage) PixelRed(x, y int) float32 {
	b := ri.img.Bounds()
	wx := b.Min.X + wrap(x, ri.w)
	wy := b.Min.Y + wrap(y, ri.h)
	return redAt(ri.img, wx, wy)
}

func (ri *RedChannelImage) BakeRange() interval.Interval {
	return interval.Interval{Lo: ri.rangeLo, Hi: ri.rangeHi}
}
