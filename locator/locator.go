package locator

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/tsawler/tablesnap/model"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/trace"
)

var (
	// ErrNoTableFound means no contour large enough to be a table was
	// detected.
	ErrNoTableFound = errors.New("locator: no table outline found")

	// ErrAmbiguousTable means two or more outlines of comparable size were
	// detected and picking one would be a guess.
	ErrAmbiguousTable = errors.New("locator: multiple table outlines of comparable size")
)

// cornerMarkRadius sizes the corner discs drawn into trace output.
const cornerMarkRadius = 10

// Config holds locator configuration.
type Config struct {
	// Threshold binarizes the photograph before outline detection. It
	// must emit dark print as white foreground; DefaultConfig inverts a
	// per-image Otsu cutoff to do that.
	Threshold raster.ThresholdSpec

	// Dilation thickens the binary foreground before contour tracing so a
	// border drawn with thin or slightly broken lines still closes into
	// one outline. A zero kernel or zero iterations skips the pass.
	Dilation           raster.Kernel
	DilationIterations int

	// MinAreaRatio is the smallest accepted outline area as a fraction of
	// the photograph's area. Outlines below it are noise, not tables.
	MinAreaRatio float64

	// AmbiguityRatio triggers ErrAmbiguousTable when the runner-up
	// outline's area reaches this fraction of the winner's. Values above 1
	// disable the check.
	AmbiguityRatio float64

	// ScaleRatio sets the corrected crop's width as a fraction of the
	// photograph's width.
	ScaleRatio float64

	// PaddingPercent sizes the white border added around the corrected
	// crop, per dimension.
	PaddingPercent int

	// Logger receives progress and selection details. Nil disables
	// logging.
	Logger *zap.Logger

	// Trace receives every intermediate image. Nil disables tracing.
	Trace *trace.Recorder
}

// DefaultConfig returns the configuration tuned for phone photographs of
// printed pages: per-shot Otsu binarization with dark print as foreground,
// five rounds of 3x3 dilation to close hairline borders, and a crop at 90%
// of the source width with a 10% white margin.
func DefaultConfig() Config {
	threshold := raster.OtsuThreshold()
	threshold.Invert = true
	return Config{
		Threshold:          threshold,
		Dilation:           raster.NewKernel(raster.Block, 3),
		DilationIterations: 5,
		MinAreaRatio:       0.05,
		AmbiguityRatio:     0.5,
		ScaleRatio:         0.9,
		PaddingPercent:     10,
	}
}

// Locator finds a table in a photograph. Create one with New; it is safe
// for concurrent use.
type Locator struct {
	cfg Config
	log *zap.Logger
}

// New returns a Locator using cfg. Non-positive ScaleRatio and
// AmbiguityRatio fall back to the defaults, since a zero-width crop and a
// selection that rejects every second contour are never useful.
func New(cfg Config) *Locator {
	if cfg.ScaleRatio <= 0 {
		cfg.ScaleRatio = DefaultConfig().ScaleRatio
	}
	if cfg.AmbiguityRatio <= 0 {
		cfg.AmbiguityRatio = DefaultConfig().AmbiguityRatio
	}
	if cfg.PaddingPercent < 0 {
		cfg.PaddingPercent = 0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{cfg: cfg, log: log}
}

// Result is a located table: the perspective-corrected padded crop, the
// corner points of the table in source coordinates in top-left, top-right,
// bottom-right, bottom-left order, and the outline contour they came from.
type Result struct {
	Image   *image.NRGBA
	Corners [4]model.Point
	Contour raster.Contour
}

// Locate finds the table in the photograph and returns its corrected crop.
// It returns ErrNoTableFound when nothing table-sized is present and
// ErrAmbiguousTable when the photograph shows more than one candidate.
func (l *Locator) Locate(src image.Image) (*Result, error) {
	b := src.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("locator: empty source image")
	}

	l.cfg.Trace.Record("original", src)

	gray := raster.Grayscale(src)
	l.cfg.Trace.Record("grayscale", gray)

	bin := raster.Threshold(gray, l.cfg.Threshold)
	l.cfg.Trace.Record("threshold", bin)

	dilated := raster.Dilate(bin, l.cfg.Dilation, l.cfg.DilationIterations)
	l.cfg.Trace.Record("dilated", dilated)

	contour, err := l.selectOutline(dilated, float64(b.Dx())*float64(b.Dy()))
	if err != nil {
		return nil, err
	}

	quad := corners(contour.Points)
	l.cfg.Trace.Record("corners", trace.DrawPoints(src, quad[:], trace.MarkColor, cornerMarkRadius))

	width, height := l.targetSize(b.Dx(), quad)
	warped, err := raster.Warp(src, quad, width, height)
	if err != nil {
		return nil, fmt.Errorf("locator: correct perspective: %w", err)
	}
	l.cfg.Trace.Record("warped", warped)

	out := raster.Pad(warped, l.cfg.PaddingPercent)
	l.cfg.Trace.Record("padded", out)

	l.log.Info("Located table",
		zap.Float64("area", contour.Area),
		zap.Int("width", out.Bounds().Dx()),
		zap.Int("height", out.Bounds().Dy()),
	)
	return &Result{Image: out, Corners: quad, Contour: contour}, nil
}

// selectOutline picks the contour with the largest enclosed area, rejecting
// photographs with nothing table-sized or with two comparable candidates.
func (l *Locator) selectOutline(bin *image.Gray, imageArea float64) (raster.Contour, error) {
	contours := raster.FindContours(bin)
	if len(contours) == 0 {
		return raster.Contour{}, ErrNoTableFound
	}

	best, second := -1, -1
	for i, c := range contours {
		switch {
		case best < 0 || c.Area > contours[best].Area:
			second = best
			best = i
		case second < 0 || c.Area > contours[second].Area:
			second = i
		}
	}

	winner := contours[best]
	l.log.Debug("Selected table outline",
		zap.Int("contours", len(contours)),
		zap.Float64("area", winner.Area),
		zap.Stringer("box", winner.Box),
	)

	if winner.Area < l.cfg.MinAreaRatio*imageArea {
		return raster.Contour{}, ErrNoTableFound
	}
	if second >= 0 && contours[second].Area >= l.cfg.AmbiguityRatio*winner.Area {
		return raster.Contour{}, ErrAmbiguousTable
	}
	return winner, nil
}

// corners derives the quad corners from boundary points by diagonal
// projection: the top-left corner minimizes x+y, the bottom-right
// maximizes it, the top-right maximizes x-y and the bottom-left minimizes
// it. This holds for any convex outline regardless of rotation within
// roughly 45 degrees, which covers handheld shots.
func corners(points []model.Point) [4]model.Point {
	tl, tr, br, bl := points[0], points[0], points[0], points[0]
	for _, p := range points[1:] {
		if p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if p.X+p.Y > br.X+br.Y {
			br = p
		}
		if p.X-p.Y > tr.X-tr.Y {
			tr = p
		}
		if p.X-p.Y < bl.X-bl.Y {
			bl = p
		}
	}
	return [4]model.Point{tl, tr, br, bl}
}

// targetSize derives the corrected crop's dimensions: the width comes from
// the photograph scaled by ScaleRatio, the height preserves the table's
// own aspect ratio measured along the left and top edges of the quad.
func (l *Locator) targetSize(srcWidth int, quad [4]model.Point) (int, int) {
	width := int(float64(srcWidth) * l.cfg.ScaleRatio)
	top := quad[0].Distance(quad[1])
	left := quad[0].Distance(quad[3])
	if top == 0 {
		return width, 0
	}
	return width, int(float64(width) * left / top)
}
