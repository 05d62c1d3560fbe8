package tablesnap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/tablesnap/cells"
	"github.com/tsawler/tablesnap/locator"
	"github.com/tsawler/tablesnap/model"
	"github.com/tsawler/tablesnap/structure"
)

// errNilImage guards FromImage against a nil source.
var errNilImage = errors.New("tablesnap: nil source image")

// Stage names used in errors and warnings.
const (
	StageDecode          = "decode"
	StageLocate          = "locate"
	StageRemoveStructure = "remove-structure"
	StageExtractCells    = "extract-cells"
)

// Sentinel errors re-exported from the stage packages, so callers can use
// errors.Is without importing them.
var (
	// ErrNoTableFound means no outline large enough to be a table was
	// detected in the photograph.
	ErrNoTableFound = locator.ErrNoTableFound

	// ErrAmbiguousTable means two or more outlines of comparable size
	// were detected and picking one would be a guess.
	ErrAmbiguousTable = locator.ErrAmbiguousTable

	// ErrRemovalFailed means the located crop could not be processed at
	// all, such as a crop with zero area.
	ErrRemovalFailed = structure.ErrRemovalFailed

	// ErrIrregularGrid means the detected cells could not be reconciled
	// into a rectangular grid.
	ErrIrregularGrid = cells.ErrIrregularGrid
)

// StageError reports which pipeline stage failed on which image. It wraps
// the stage's own error, so errors.Is and errors.As reach the sentinels
// above.
type StageError struct {
	// Image identifies the source, the file path for Open or "image" for
	// FromImage.
	Image string

	// Stage is the pipeline stage that failed.
	Stage string

	// Box is the located table region in photograph coordinates, when
	// the failure happened after location. Zero otherwise.
	Box model.BBox

	// Err is the stage's error.
	Err error
}

func (e *StageError) Error() string {
	if e.Box.IsValid() {
		return fmt.Sprintf("%s: %s (table at %s): %v", e.Image, e.Stage, e.Box, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Image, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Warning describes a non-fatal issue found while processing. Processing
// succeeded but the result may be imperfect, such as a cell whose
// recognition failed and was left empty.
type Warning struct {
	Stage   string
	Message string
}

// FormatWarnings joins warnings into a single log-friendly string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = fmt.Sprintf("%s: %s", w.Stage, w.Message)
	}
	return strings.Join(parts, "; ")
}
