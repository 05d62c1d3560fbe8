package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultHueTolerance is the hue margin, on the halved 0-180 scale, used by
// a ColorSpec that does not set its own. It absorbs the hue drift printed
// colors pick up from lighting and camera white balance.
const DefaultHueTolerance = 10

// Pixels with saturation or value below these floors are near-gray or
// near-black, where hue is numerically unstable and matching it would
// select page background and print alike.
const (
	minMaskSaturation = 20
	minMaskValue      = 20
)

// HSV holds a color in the compact hue/saturation/value encoding: hue is
// halved to fit the full circle into 0-180, saturation and value are scaled
// to 0-255.
type HSV struct {
	H, S, V uint8
}

// RGBToHSV converts an 8-bit RGB color to the compact HSV encoding.
func RGBToHSV(r, g, b uint8) HSV {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	maxv := math.Max(rf, math.Max(gf, bf))
	minv := math.Min(rf, math.Min(gf, bf))
	delta := maxv - minv

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxv == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case maxv == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxv > 0 {
		s = delta / maxv
	}

	hh := int(math.Round(h / 2))
	if hh >= 180 {
		hh -= 180
	}
	return HSV{
		H: uint8(hh),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(maxv * 255)),
	}
}

// ColorSpec selects pixels whose hue falls within Tolerance of a reference
// color's hue. Tolerance is on the halved 0-180 hue scale; zero means
// DefaultHueTolerance.
type ColorSpec struct {
	R, G, B   uint8
	Tolerance int
}

// hueBand is an inclusive hue interval on the 0-180 scale.
type hueBand struct {
	lo, hi int
}

// bands returns the hue intervals covering the spec. Hue wraps at the
// 0/180 seam, so a band straddling it splits in two.
func (s ColorSpec) bands() []hueBand {
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultHueTolerance
	}
	h := int(RGBToHSV(s.R, s.G, s.B).H)
	lo, hi := h-tol, h+tol
	switch {
	case lo < 0:
		return []hueBand{{lo + 180, 180}, {0, hi}}
	case hi > 180:
		return []hueBand{{lo, 180}, {0, hi - 180}}
	default:
		return []hueBand{{lo, hi}}
	}
}

// ColorMask returns a binary mask that is white wherever src's pixel color
// matches spec. Near-gray and near-black pixels never match regardless of
// hue.
func ColorMask(src image.Image, spec ColorSpec) *image.Gray {
	bands := spec.bands()
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		di := out.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			hsv := RGBToHSV(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			if hsv.S < minMaskSaturation || hsv.V < minMaskValue {
				continue
			}
			for _, band := range bands {
				if int(hsv.H) >= band.lo && int(hsv.H) <= band.hi {
					out.Pix[di+x] = 255
					break
				}
			}
		}
	}
	return out
}

// Knockout returns a copy of src with every pixel selected by mask turned
// black, turning multi-tone shapes into solid blocks the morphological
// passes can match whole. Panics on dimension mismatch, which is a pipeline
// programming error rather than an input condition.
func Knockout(src image.Image, mask *image.Gray) *image.NRGBA {
	out := imaging.Clone(src)
	ob, mb := out.Bounds(), mask.Bounds()
	if ob.Dx() != mb.Dx() || ob.Dy() != mb.Dy() {
		panic("raster: Knockout: mask dimensions do not match image")
	}
	black := color.NRGBA{A: 255}
	for y := 0; y < ob.Dy(); y++ {
		mi := mask.PixOffset(mb.Min.X, mb.Min.Y+y)
		for x := 0; x < ob.Dx(); x++ {
			if mask.Pix[mi+x] > 0 {
				out.SetNRGBA(x, y, black)
			}
		}
	}
	return out
}
