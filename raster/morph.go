package raster

import "image"

// Erode shrinks foreground regions: each output pixel is the minimum over
// the kernel window centered on it. Shapes the kernel does not fit inside
// vanish, which is what isolates line-shaped patterns. Out-of-bounds
// positions act as white, so dimensions are preserved and borders never
// erode inward artificially.
func Erode(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return morph(src, k, iterations, minPass, k.Width/2, k.Height/2)
}

// Dilate grows foreground regions: each output pixel is the maximum over
// the kernel window. The window mirrors the one Erode uses, so eroding
// then dilating with the same kernel regrows surviving shapes in place
// instead of drifting them sideways when the kernel size is even.
// Out-of-bounds positions act as black.
func Dilate(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return morph(src, k, iterations, maxPass, (k.Width-1)/2, (k.Height-1)/2)
}

// MorphOpen erodes then dilates, removing speckles smaller than the kernel
// while restoring surviving shapes to roughly their original extent.
func MorphOpen(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return Dilate(Erode(src, k, iterations), k, iterations)
}

// Close dilates then erodes, bridging small gaps such as broken text
// strokes without growing the overall shape.
func Close(src *image.Gray, k Kernel, iterations int) *image.Gray {
	return Erode(Dilate(src, k, iterations), k, iterations)
}

// morph runs iterations of a separable window filter. A rectangular
// structuring element factors into a horizontal pass followed by a
// vertical pass.
func morph(src *image.Gray, k Kernel, iterations int, pass passFunc, anchorX, anchorY int) *image.Gray {
	out := cloneGray(src)
	if !k.valid() || iterations < 1 {
		return out
	}
	for i := 0; i < iterations; i++ {
		if k.Width > 1 {
			out = filterRows(out, k.Width, anchorX, pass)
		}
		if k.Height > 1 {
			out = filterCols(out, k.Height, anchorY, pass)
		}
	}
	return out
}

// passFunc scans a window of a row (stride 1) or column (stride = row
// width) and returns the selected extreme.
type passFunc func(pix []uint8, lo, hi, stride int) uint8

func minPass(pix []uint8, lo, hi, stride int) uint8 {
	v := pix[lo]
	for i := lo + stride; i <= hi; i += stride {
		if pix[i] < v {
			v = pix[i]
			if v == 0 {
				break
			}
		}
	}
	return v
}

func maxPass(pix []uint8, lo, hi, stride int) uint8 {
	v := pix[lo]
	for i := lo + stride; i <= hi; i += stride {
		if pix[i] > v {
			v = pix[i]
			if v == 255 {
				break
			}
		}
	}
	return v
}

// filterRows applies the pass along each row with a window of size w
// anchored at the given offset, clamped at the row ends.
func filterRows(src *image.Gray, w, anchor int, pass passFunc) *image.Gray {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, dx, dy))
	for y := 0; y < dy; y++ {
		row := src.Pix[src.PixOffset(0, y) : src.PixOffset(0, y)+dx]
		di := out.PixOffset(0, y)
		for x := 0; x < dx; x++ {
			lo := max(0, x-anchor)
			hi := min(dx-1, x+(w-1-anchor))
			out.Pix[di+x] = pass(row, lo, hi, 1)
		}
	}
	return out
}

// filterCols applies the pass along each column with a window of size h
// anchored at the given offset, clamped at the column ends.
func filterCols(src *image.Gray, h, anchor int, pass passFunc) *image.Gray {
	b := src.Bounds()
	dx, dy := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, dx, dy))
	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			lo := max(0, y-anchor)
			hi := min(dy-1, y+(h-1-anchor))
			out.Pix[out.PixOffset(0, y)+x] = pass(src.Pix, lo*src.Stride+x, hi*src.Stride+x, src.Stride)
		}
	}
	return out
}
