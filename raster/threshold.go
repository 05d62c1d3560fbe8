package raster

import "image"

// ThresholdMode selects how the binary cutoff is derived.
type ThresholdMode int

const (
	// ThresholdGlobal applies one fixed cutoff to every pixel.
	ThresholdGlobal ThresholdMode = iota

	// ThresholdOtsu derives one cutoff per image from the intensity
	// histogram by maximizing between-class variance. The usual choice for
	// photographs, where lighting varies shot to shot.
	ThresholdOtsu

	// ThresholdAdaptive computes a per-pixel cutoff from the mean of the
	// surrounding window minus a constant, tolerating shading gradients
	// across a single shot.
	ThresholdAdaptive
)

// String returns the mode name for configuration and logs.
func (m ThresholdMode) String() string {
	switch m {
	case ThresholdGlobal:
		return "global"
	case ThresholdOtsu:
		return "otsu"
	case ThresholdAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ThresholdSpec parameterizes binarization. Use the constructors for
// sensible starting points; all fields remain tunable.
type ThresholdSpec struct {
	Mode   ThresholdMode
	Value  uint8 // cutoff for ThresholdGlobal
	Window int   // neighborhood size for ThresholdAdaptive, odd and >= 3
	C      int   // mean offset for ThresholdAdaptive
	Invert bool  // emit foreground where intensity is at or below the cutoff
}

// GlobalThreshold returns a spec with a fixed cutoff.
func GlobalThreshold(value uint8) ThresholdSpec {
	return ThresholdSpec{Mode: ThresholdGlobal, Value: value}
}

// OtsuThreshold returns a spec that derives the cutoff per image.
func OtsuThreshold() ThresholdSpec {
	return ThresholdSpec{Mode: ThresholdOtsu}
}

// AdaptiveThreshold returns a spec with per-pixel cutoffs computed over
// window, offset by c.
func AdaptiveThreshold(window, c int) ThresholdSpec {
	return ThresholdSpec{Mode: ThresholdAdaptive, Window: window, C: c}
}

// Threshold binarizes a grayscale image to strict 0/255. Pixels brighter
// than the cutoff become white and the rest black; spec.Invert swaps the
// two, which is how dark print on a light page becomes foreground in one
// step.
func Threshold(src *image.Gray, spec ThresholdSpec) *image.Gray {
	if spec.Mode == ThresholdAdaptive {
		return adaptiveThreshold(src, spec)
	}

	cutoff := spec.Value
	if spec.Mode == ThresholdOtsu {
		cutoff = otsuLevel(src)
	}

	hi, lo := uint8(255), uint8(0)
	if spec.Invert {
		hi, lo = lo, hi
	}

	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := out.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			if src.Pix[si+x] > cutoff {
				out.Pix[di+x] = hi
			} else {
				out.Pix[di+x] = lo
			}
		}
	}
	return out
}

// otsuLevel picks the cutoff that maximizes between-class variance of the
// intensity histogram.
func otsuLevel(src *image.Gray) uint8 {
	var hist [256]int
	b := src.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 127
	}
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			hist[src.Pix[si+x]]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	var best float64
	var level uint8
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = uint8(t)
		}
	}
	return level
}

// adaptiveThreshold compares each pixel against the mean of its window
// minus C, using a summed-area table so the window size does not matter
// for cost. Windows are clamped at the borders.
func adaptiveThreshold(src *image.Gray, spec ThresholdSpec) *image.Gray {
	w := spec.Window
	if w < 3 {
		w = 3
	}
	if w%2 == 0 {
		w++
	}
	half := w / 2

	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, dx, dy))
	if dx == 0 || dy == 0 {
		return out
	}

	// integral[y][x] holds the sum of the rectangle [0,x) x [0,y).
	integral := make([]int64, (dx+1)*(dy+1))
	for y := 0; y < dy; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		var rowSum int64
		for x := 0; x < dx; x++ {
			rowSum += int64(src.Pix[si+x])
			integral[(y+1)*(dx+1)+(x+1)] = integral[y*(dx+1)+(x+1)] + rowSum
		}
	}

	hi, lo := uint8(255), uint8(0)
	if spec.Invert {
		hi, lo = lo, hi
	}

	for y := 0; y < dy; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := out.PixOffset(0, y)
		y0 := max(0, y-half)
		y1 := min(dy-1, y+half)
		for x := 0; x < dx; x++ {
			x0 := max(0, x-half)
			x1 := min(dx-1, x+half)
			area := int64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(dx+1)+(x1+1)] -
				integral[(y0)*(dx+1)+(x1+1)] -
				integral[(y1+1)*(dx+1)+(x0)] +
				integral[(y0)*(dx+1)+(x0)]
			mean := sum / area
			if int64(src.Pix[si+x]) > mean-int64(spec.C) {
				out.Pix[di+x] = hi
			} else {
				out.Pix[di+x] = lo
			}
		}
	}
	return out
}
