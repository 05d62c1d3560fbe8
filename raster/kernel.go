package raster

import "fmt"

// Orientation tags the shape of a structuring element.
type Orientation int

const (
	// Horizontal selects a size×1 row kernel. Erosion with it keeps only
	// locally horizontal runs, which is how horizontal grid lines are
	// isolated from text.
	Horizontal Orientation = iota

	// Vertical selects a 1×size column kernel, isolating vertical lines.
	Vertical

	// Block selects a size×size square kernel for pattern-free growth and
	// shrinkage, such as icon glyphs and blob merging.
	Block
)

// String returns the orientation name for configuration and logs.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Kernel is a rectangular structuring element for morphological operations.
// The zero value is invalid; construct with NewKernel or RectKernel.
type Kernel struct {
	Width  int
	Height int
}

// NewKernel builds a kernel from an orientation tag and a size.
func NewKernel(o Orientation, size int) Kernel {
	switch o {
	case Horizontal:
		return Kernel{Width: size, Height: 1}
	case Vertical:
		return Kernel{Width: 1, Height: size}
	default:
		return Kernel{Width: size, Height: size}
	}
}

// RectKernel builds a kernel with explicit dimensions for shapes that lean
// one way without being strict lines, such as the wide-and-short kernel
// that merges words within a line.
func RectKernel(width, height int) Kernel {
	return Kernel{Width: width, Height: height}
}

// Orientation derives the kernel's orientation tag from its dimensions.
func (k Kernel) Orientation() Orientation {
	switch {
	case k.Width > k.Height:
		return Horizontal
	case k.Height > k.Width:
		return Vertical
	default:
		return Block
	}
}

// String formats the kernel as "WxH".
func (k Kernel) String() string {
	return fmt.Sprintf("%dx%d", k.Width, k.Height)
}

func (k Kernel) valid() bool {
	return k.Width >= 1 && k.Height >= 1
}
