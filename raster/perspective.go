package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/tsawler/tablesnap/model"
)

// Homography is a 3x3 projective transform with the bottom-right element
// fixed at 1. The remaining eight coefficients are stored row-major.
type Homography [8]float64

// Apply maps the point (x, y) through the transform.
func (m Homography) Apply(x, y float64) (float64, float64) {
	d := m[6]*x + m[7]*y + 1
	return (m[0]*x + m[1]*y + m[2]) / d, (m[3]*x + m[4]*y + m[5]) / d
}

// PerspectiveTransform solves the homography that maps each src point onto
// the corresponding dst point. The four correspondences yield an 8x8 linear
// system, solved by Gaussian elimination with partial pivoting. Returns an
// error when the points are degenerate (three or more collinear), since no
// projective transform exists for such a quad.
func PerspectiveTransform(src, dst [4]model.Point) (Homography, error) {
	// Each correspondence contributes two rows:
	//   a*x + b*y + c - g*x*X - h*y*X = X
	//   d*x + e*y + f - g*x*Y - h*y*Y = Y
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := float64(src[i].X), float64(src[i].Y)
		u, v := float64(dst[i].X), float64(dst[i].Y)
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -x * u, -y * u, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -x * v, -y * v, v}
	}

	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-10 {
			return Homography{}, fmt.Errorf("raster: degenerate corner geometry")
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < 8; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}

	var h Homography
	for row := 7; row >= 0; row-- {
		sum := a[row][8]
		for k := row + 1; k < 8; k++ {
			sum -= a[row][k] * h[k]
		}
		h[row] = sum / a[row][row]
	}
	return h, nil
}

// Warp resamples src so that the quad corners, given in top-left, top-right,
// bottom-right, bottom-left order, map onto an axis-aligned width x height
// rectangle. Sampling is inverse-mapped: for each output pixel the transform
// is applied back into the source and the value interpolated bilinearly.
// Positions falling outside the source read as white, matching the page
// background the quad was photographed on.
func Warp(src image.Image, quad [4]model.Point, width, height int) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster: warp target %dx%d is empty", width, height)
	}

	rect := [4]model.Point{{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height}}
	inv, err := PerspectiveTransform(rect, quad)
	if err != nil {
		return nil, err
	}

	// Clone flattens any source format into NRGBA with a zero origin so the
	// sampling loop can index Pix directly.
	in := imaging.Clone(src)
	iw, ih := in.Bounds().Dx(), in.Bounds().Dy()

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := inv.Apply(float64(x), float64(y))
			out.SetNRGBA(x, y, sampleBilinear(in, iw, ih, sx, sy))
		}
	}
	return out, nil
}

// sampleBilinear interpolates the four pixels surrounding (sx, sy),
// substituting white for neighbors outside the image.
func sampleBilinear(in *image.NRGBA, iw, ih int, sx, sy float64) color.NRGBA {
	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	var r, g, b, a float64
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			w := (1 - math.Abs(float64(dx)-fx)) * (1 - math.Abs(float64(dy)-fy))
			if w == 0 {
				continue
			}
			px, py := x0+dx, y0+dy
			if px < 0 || py < 0 || px >= iw || py >= ih {
				r += 255 * w
				g += 255 * w
				b += 255 * w
				a += 255 * w
				continue
			}
			i := in.PixOffset(px, py)
			r += float64(in.Pix[i]) * w
			g += float64(in.Pix[i+1]) * w
			b += float64(in.Pix[i+2]) * w
			a += float64(in.Pix[i+3]) * w
		}
	}
	return color.NRGBA{
		R: uint8(math.Round(r)),
		G: uint8(math.Round(g)),
		B: uint8(math.Round(b)),
		A: uint8(math.Round(a)),
	}
}
