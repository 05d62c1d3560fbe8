package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoding for photos saved from the web

	"github.com/tsawler/tablesnap/model"
)

// Open loads a photograph from disk, applying EXIF orientation so camera
// rotation metadata does not skew contour geometry. JPEG, PNG, GIF, TIFF,
// BMP and WebP are supported.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("raster: open %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an in-memory photograph.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: decode image: %w", err)
	}
	return img, nil
}

// Grayscale reduces an image to one intensity channel using the standard
// luminance weights (0.299 R + 0.587 G + 0.114 B). This is a dimensionality
// reduction, not thresholding.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := src.(*image.Gray); ok {
		draw.Draw(out, out.Bounds(), g, b.Min, draw.Src)
		return out
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return out
}

// Invert flips the intensity of every pixel, turning black foreground on a
// white page into the light-on-dark form contour detection expects.
func Invert(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := out.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			out.Pix[di+x] = 255 - src.Pix[si+x]
		}
	}
	return out
}

// Add returns the pixel-wise saturating sum of two images of equal size.
// Panics if the dimensions differ, since that is a pipeline programming
// error rather than an input condition.
func Add(a, b *image.Gray) *image.Gray {
	mustMatch(a, b, "Add")
	return combine(a, b, func(pa, pb uint8) uint8 {
		v := int(pa) + int(pb)
		if v > 255 {
			return 255
		}
		return uint8(v)
	})
}

// Subtract returns the pixel-wise difference a-b clamped at zero.
// Panics if the dimensions differ.
func Subtract(a, b *image.Gray) *image.Gray {
	mustMatch(a, b, "Subtract")
	return combine(a, b, func(pa, pb uint8) uint8 {
		v := int(pa) - int(pb)
		if v < 0 {
			return 0
		}
		return uint8(v)
	})
}

func mustMatch(a, b *image.Gray, op string) {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		panic(fmt.Sprintf("raster: %s: dimension mismatch %dx%d vs %dx%d",
			op, a.Bounds().Dx(), a.Bounds().Dy(), b.Bounds().Dx(), b.Bounds().Dy()))
	}
}

func combine(a, b *image.Gray, f func(uint8, uint8) uint8) *image.Gray {
	ab, bb := a.Bounds(), b.Bounds()
	out := image.NewGray(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	for y := 0; y < ab.Dy(); y++ {
		ai := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bi := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		di := out.PixOffset(0, y)
		for x := 0; x < ab.Dx(); x++ {
			out.Pix[di+x] = f(a.Pix[ai+x], b.Pix[bi+x])
		}
	}
	return out
}

// CountNonzero returns the number of pixels with intensity above zero.
func CountNonzero(src *image.Gray) int {
	b := src.Bounds()
	n := 0
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			if src.Pix[si+x] > 0 {
				n++
			}
		}
	}
	return n
}

// Pad surrounds the image with a uniform white border sized as a percentage
// of each dimension, so later morphological kernels never interact with the
// image edge.
func Pad(src image.Image, percent int) *image.NRGBA {
	b := src.Bounds()
	px := b.Dx() * percent / 100
	py := b.Dy() * percent / 100
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*px, b.Dy()+2*py))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(px, py, px+b.Dx(), py+b.Dy()), src, b.Min, draw.Src)
	return out
}

// Crop copies the region described by box out of the image. The box is
// interpreted relative to the image frame and clamped to its bounds; a box
// entirely outside yields an empty image.
func Crop(src image.Image, box model.BBox) *image.NRGBA {
	b := src.Bounds()
	r := box.Rect().Add(b.Min).Intersect(b)
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if !r.Empty() {
		draw.Draw(out, out.Bounds(), src, r.Min, draw.Src)
	}
	return out
}

func cloneGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[out.PixOffset(0, y):out.PixOffset(0, y)+b.Dx()], src.Pix[si:si+b.Dx()])
	}
	return out
}
