package cells

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/tsawler/tablesnap/model"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/trace"
)

// ErrIrregularGrid is returned when the detected rows cannot be reconciled
// into a rectangular grid. Use errors.As with *GridError for the offending
// row.
var ErrIrregularGrid = errors.New("cells: irregular cell grid")

// GridError reports a row whose cell count falls too far short of the
// widest row in the table.
type GridError struct {
	Row  int // offending row index
	Cols int // cells detected in that row
	Want int // cells in the widest row
}

func (e *GridError) Error() string {
	return fmt.Sprintf("cells: row %d has %d cells, want %d", e.Row, e.Cols, e.Want)
}

func (e *GridError) Unwrap() error { return ErrIrregularGrid }

// Recognizer converts a single cell image into text. Implementations are
// called sequentially and may keep per-call state.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(img image.Image) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(img image.Image) (string, error) {
	return f(img)
}

// DilationPass is one dilation step applied while merging the glyphs of a
// cell into a single blob.
type DilationPass struct {
	Kernel     raster.Kernel
	Iterations int
}

// Config holds the tunable parameters for cell extraction.
type Config struct {
	// Dilation merges adjacent glyphs into one blob per cell. Passes
	// run in order; a wide flat kernel first bridges the gaps between
	// characters, a square one then rounds the blobs off.
	Dilation []DilationPass

	// MinBoxArea drops blobs whose bounding box is smaller than this
	// many square pixels. Residual specks from structure removal fall
	// well under any plausible cell size.
	MinBoxArea int

	// MaxBoxArea drops blobs larger than this when positive. A blob
	// spanning most of the crop usually means structure removal failed.
	MaxBoxArea int

	// MinHeightRatio drops boxes shorter than this fraction of the mean
	// box height when positive, filtering out underlines and dashes
	// that survive the area cut.
	MinHeightRatio float64

	// RowTolerance is the vertical center distance within which two
	// boxes share a row. Zero derives half the mean box height.
	RowTolerance int

	// PadTolerance is how many cells a row may fall short of the widest
	// row; affected rows are padded with empty trailing cells. Rows
	// short by more fail with ErrIrregularGrid.
	PadTolerance int

	// Recognizer fills in cell text. Nil leaves every cell empty, which
	// still yields the grid geometry.
	Recognizer Recognizer

	// Logger receives progress messages. Nil disables logging.
	Logger *zap.Logger

	// Trace records intermediate images. Nil disables tracing.
	Trace *trace.Recorder
}

// DefaultConfig returns extraction settings that work well for printed
// tables photographed at typical document resolutions.
func DefaultConfig() Config {
	return Config{
		Dilation: []DilationPass{
			{Kernel: raster.RectKernel(10, 2), Iterations: 5},
			{Kernel: raster.NewKernel(raster.Block, 5), Iterations: 2},
		},
		MinBoxArea:   100,
		PadTolerance: 1,
	}
}

// Extractor detects cell regions in a text image and assembles them into
// an ordered table.
type Extractor struct {
	cfg Config
	log *zap.Logger
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	if cfg.MinBoxArea < 0 {
		cfg.MinBoxArea = 0
	}
	if cfg.PadTolerance < 0 {
		cfg.PadTolerance = 0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{cfg: cfg, log: log}
}

// Result carries the assembled table along with the raw detections that
// produced it.
type Result struct {
	// Table is the recognized grid. Cells keep their source-image slice
	// and bounding box alongside any recognized text.
	Table *model.Table

	// Boxes lists every detected cell region in reading order.
	Boxes []model.TextBox

	// Failed lists cells whose recognition returned an error. Their
	// table entries carry empty text.
	Failed []model.TextBox
}

// Extract finds cell regions in the text image, orders them into a grid,
// and slices each cell out of source for recognition. The text image
// carries foreground as white on black; source is the matching original
// crop, and may be nil to slice from the text image itself. An image with
// no detectable cells yields an empty table, not an error.
func (e *Extractor) Extract(text *image.Gray, source image.Image) (*Result, error) {
	if text == nil || text.Bounds().Dx() < 1 || text.Bounds().Dy() < 1 {
		return nil, errors.New("cells: empty text image")
	}
	if source == nil {
		source = text
	}

	blobs := text
	for i, pass := range e.cfg.Dilation {
		blobs = raster.Dilate(blobs, pass.Kernel, pass.Iterations)
		e.cfg.Trace.Record(fmt.Sprintf("blobs-%d", i+1), blobs)
	}

	boxes := e.collectBoxes(blobs)
	if len(boxes) == 0 {
		e.log.Info("No cell regions found")
		return &Result{Table: model.NewTable(0, 0)}, nil
	}
	e.cfg.Trace.Record("cells", trace.DrawBoxes(source, boxes, trace.BoxColor, 2))

	rows := OrderBoxes(boxes, e.cfg.RowTolerance)
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for r, row := range rows {
		if cols-len(row) > e.cfg.PadTolerance {
			return nil, &GridError{Row: r, Cols: len(row), Want: cols}
		}
	}

	result := &Result{Table: model.NewTable(len(rows), cols)}
	for _, row := range rows {
		for _, tb := range row {
			result.Boxes = append(result.Boxes, tb)
			cell := model.Cell{
				Row:   tb.Row,
				Col:   tb.Col,
				Box:   tb.Box,
				Image: raster.Crop(source, tb.Box),
			}
			if e.cfg.Recognizer != nil {
				recognized, err := e.cfg.Recognizer.Recognize(cell.Image)
				if err != nil {
					e.log.Warn("Cell recognition failed",
						zap.Int("row", tb.Row),
						zap.Int("col", tb.Col),
						zap.Error(err))
					result.Failed = append(result.Failed, tb)
				} else {
					cell.Text = recognized
				}
			}
			result.Table.Rows[tb.Row][tb.Col] = cell
		}
	}
	result.Table.Box = spanOf(result.Boxes)

	e.log.Info("Extracted cells",
		zap.Int("rows", result.Table.RowCount()),
		zap.Int("cols", result.Table.ColCount()),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// collectBoxes turns blob contours into candidate cell boxes, dropping
// those outside the configured size limits.
func (e *Extractor) collectBoxes(blobs *image.Gray) []model.BBox {
	contours := raster.FindContours(blobs)
	boxes := make([]model.BBox, 0, len(contours))
	for _, c := range contours {
		area := c.Box.Area()
		if area < e.cfg.MinBoxArea {
			continue
		}
		if e.cfg.MaxBoxArea > 0 && area > e.cfg.MaxBoxArea {
			continue
		}
		boxes = append(boxes, c.Box)
	}
	if e.cfg.MinHeightRatio > 0 && len(boxes) > 0 {
		minHeight := e.cfg.MinHeightRatio * meanHeight(boxes)
		kept := boxes[:0]
		for _, box := range boxes {
			if float64(box.Height) >= minHeight {
				kept = append(kept, box)
			}
		}
		boxes = kept
	}
	e.log.Debug("Collected cell boxes",
		zap.Int("contours", len(contours)),
		zap.Int("kept", len(boxes)))
	return boxes
}

// spanOf returns the bounding box covering every detected cell.
func spanOf(boxes []model.TextBox) model.BBox {
	if len(boxes) == 0 {
		return model.BBox{}
	}
	span := boxes[0].Box
	for _, tb := range boxes[1:] {
		span = span.Union(tb.Box)
	}
	return span
}
