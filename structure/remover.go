package structure

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/trace"
)

// ErrRemovalFailed is returned for source images that cannot be processed
// at all, such as one with zero area. A page with no detectable structure
// is not a failure; removal degrades to a no-op there.
var ErrRemovalFailed = errors.New("structure: removal failed")

// Pattern identifies one structural shape to remove.
type Pattern int

const (
	// VerticalLines matches column separators and the table's side
	// borders.
	VerticalLines Pattern = iota

	// HorizontalLines matches row separators and the top and bottom
	// borders.
	HorizontalLines

	// Icons matches solid compact marks such as bullets and status
	// blocks.
	Icons
)

// patternOrder fixes the processing sequence; map iteration order must not
// leak into results or trace output.
var patternOrder = []Pattern{VerticalLines, HorizontalLines, Icons}

// String returns the pattern name for configuration and logs.
func (p Pattern) String() string {
	switch p {
	case VerticalLines:
		return "vertical-lines"
	case HorizontalLines:
		return "horizontal-lines"
	case Icons:
		return "icons"
	default:
		return "unknown"
	}
}

// KernelSpec describes how one pattern is isolated: an erosion only the
// pattern survives, then a dilation that regrows the survivors to cover
// what was printed.
type KernelSpec struct {
	Erode            raster.Kernel
	ErodeIterations  int
	Dilate           raster.Kernel
	DilateIterations int
}

// isolate runs the erode-dilate pair over a binary image.
func (s KernelSpec) isolate(bin *image.Gray) *image.Gray {
	return raster.Dilate(raster.Erode(bin, s.Erode, s.ErodeIterations), s.Dilate, s.DilateIterations)
}

// iconCloseKernel solidifies color-matched icon regions: closing with a
// block this size fills holes and gaps smaller than the kernel, which
// covers hollow and multi-tone icon interiors at print resolution.
var iconCloseKernel = raster.NewKernel(raster.Block, 20)

// Config holds structure removal configuration.
type Config struct {
	// Threshold binarizes the crop. It must emit dark print as white
	// foreground; DefaultConfig inverts a mid-gray cutoff to do that.
	Threshold raster.ThresholdSpec

	// Patterns maps each structural shape to the kernels that isolate it.
	// Removing an entry skips that pattern.
	Patterns map[Pattern]KernelSpec

	// MaskDilation thickens the combined structure mask before
	// subtraction so anti-aliased line fringes disappear along with the
	// line cores.
	MaskDilation           raster.Kernel
	MaskDilationIterations int

	// MinComponentArea removes leftover connected components smaller than
	// this many pixels after subtraction.
	MinComponentArea int

	// Smooth opens the result with SmoothKernel, clearing single-pixel
	// slivers the mask missed and smoothing ragged stroke edges.
	Smooth           bool
	SmoothKernel     raster.Kernel
	SmoothIterations int

	// IconColors lists print colors whose regions are turned solid black
	// before binarization. Empty disables color knockout.
	IconColors []raster.ColorSpec

	// Logger receives per-pattern pixel counts. Nil disables logging.
	Logger *zap.Logger

	// Trace receives every intermediate image. Nil disables tracing.
	Trace *trace.Recorder
}

// DefaultConfig returns the configuration tuned for corrected crops of
// printed tables: a fixed mid-gray cutoff with dark print as foreground,
// six-long line kernels and a 3x3 icon kernel each run ten times, a 3x3
// mask dilation run five times, and cleanup of components under ten
// pixels.
func DefaultConfig() Config {
	threshold := raster.GlobalThreshold(127)
	threshold.Invert = true
	return Config{
		Threshold: threshold,
		Patterns: map[Pattern]KernelSpec{
			VerticalLines: {
				Erode:            raster.NewKernel(raster.Vertical, 6),
				ErodeIterations:  10,
				Dilate:           raster.NewKernel(raster.Vertical, 6),
				DilateIterations: 10,
			},
			HorizontalLines: {
				Erode:            raster.NewKernel(raster.Horizontal, 6),
				ErodeIterations:  10,
				Dilate:           raster.NewKernel(raster.Horizontal, 6),
				DilateIterations: 10,
			},
			Icons: {
				Erode:            raster.NewKernel(raster.Block, 3),
				ErodeIterations:  10,
				Dilate:           raster.NewKernel(raster.Block, 3),
				DilateIterations: 10,
			},
		},
		MaskDilation:           raster.NewKernel(raster.Block, 3),
		MaskDilationIterations: 5,
		MinComponentArea:       10,
		Smooth:                 true,
		SmoothKernel:           raster.NewKernel(raster.Block, 2),
		SmoothIterations:       1,
	}
}

// Remover strips table structure from a crop. Create one with New; it is
// safe for concurrent use.
type Remover struct {
	cfg Config
	log *zap.Logger
}

// New returns a Remover using cfg.
func New(cfg Config) *Remover {
	if cfg.MinComponentArea < 0 {
		cfg.MinComponentArea = 0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Remover{cfg: cfg, log: log}
}

// Result carries the removal outputs: Text is the binary image with
// structure removed and text as white foreground, Inverted is the binary
// image before removal, and Mask is the thickened structure that was
// subtracted.
type Result struct {
	Text     *image.Gray
	Inverted *image.Gray
	Mask     *image.Gray
}

// Remove strips the configured patterns from the crop.
func (r *Remover) Remove(src image.Image) (*Result, error) {
	b := src.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: source image has no pixels", ErrRemovalFailed)
	}

	if len(r.cfg.IconColors) > 0 {
		src = r.knockoutIcons(src)
	}

	gray := raster.Grayscale(src)
	inverted := raster.Threshold(gray, r.cfg.Threshold)
	r.cfg.Trace.Record("inverted", inverted)

	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for _, p := range patternOrder {
		spec, ok := r.cfg.Patterns[p]
		if !ok {
			continue
		}
		isolated := spec.isolate(inverted)
		r.cfg.Trace.Record("pattern-"+p.String(), isolated)
		r.log.Debug("Isolated pattern",
			zap.Stringer("pattern", p),
			zap.Int("pixels", raster.CountNonzero(isolated)),
		)
		mask = raster.Add(mask, isolated)
	}
	r.cfg.Trace.Record("structure", mask)

	mask = raster.Dilate(mask, r.cfg.MaskDilation, r.cfg.MaskDilationIterations)
	r.cfg.Trace.Record("structure-dilated", mask)

	text := raster.Subtract(inverted, mask)
	r.cfg.Trace.Record("text", text)

	text = raster.RemoveSmallComponents(text, r.cfg.MinComponentArea)
	r.cfg.Trace.Record("cleaned", text)

	if r.cfg.Smooth {
		text = raster.MorphOpen(text, r.cfg.SmoothKernel, r.cfg.SmoothIterations)
		r.cfg.Trace.Record("smoothed", text)
	}

	r.log.Info("Removed structure",
		zap.Int("structurePixels", raster.CountNonzero(mask)),
		zap.Int("textPixels", raster.CountNonzero(text)),
	)
	return &Result{Text: text, Inverted: inverted, Mask: mask}, nil
}

// knockoutIcons turns every region matching an icon color solid black.
// Each color's mask is closed first so hollow and multi-tone icons come
// out as filled blocks.
func (r *Remover) knockoutIcons(src image.Image) image.Image {
	b := src.Bounds()
	combined := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for _, spec := range r.cfg.IconColors {
		combined = raster.Add(combined, raster.ColorMask(src, spec))
	}
	combined = raster.Close(combined, iconCloseKernel, 1)
	r.cfg.Trace.Record("color-mask", combined)

	out := raster.Knockout(src, combined)
	r.cfg.Trace.Record("knockout", out)
	return out
}
