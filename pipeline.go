package tablesnap

import (
	"fmt"
	"image"

	"github.com/tsawler/tablesnap/cells"
	"github.com/tsawler/tablesnap/locator"
	"github.com/tsawler/tablesnap/model"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/structure"
)

// Pipeline runs the three extraction stages over one photograph. Each
// configuration method returns a new Pipeline instance, making chains
// safe for concurrent use; terminal operations execute the stages.
type Pipeline struct {
	// Source: a path to decode, or an already decoded image.
	path string
	img  image.Image

	opts options

	// Accumulated error (fail-fast).
	err error
}

// clone creates a copy of the Pipeline with its own options. This keeps
// each chain step immutable.
func (p *Pipeline) clone() *Pipeline {
	return &Pipeline{
		path: p.path,
		img:  p.img,
		opts: p.opts.clone(),
		err:  p.err,
	}
}

// With applies further options and returns the adjusted Pipeline.
//
// Example:
//
//	table, _, err := tablesnap.Open("photo.jpg").
//	    With(tablesnap.WithRecognizer(client)).
//	    Table()
func (p *Pipeline) With(opts ...Option) *Pipeline {
	next := p.clone()
	for _, opt := range opts {
		opt(&next.opts)
	}
	return next
}

// name identifies the source in errors.
func (p *Pipeline) name() string {
	if p.path != "" {
		return p.path
	}
	return "image"
}

// run executes decode, locate, remove and extract in order.
func (p *Pipeline) run() (*cells.Result, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}

	img := p.img
	if img == nil {
		decoded, err := raster.Open(p.path)
		if err != nil {
			return nil, nil, &StageError{Image: p.name(), Stage: StageDecode, Err: err}
		}
		img = decoded
	}

	locCfg := p.opts.locator
	if p.opts.logger != nil {
		locCfg.Logger = p.opts.logger
	}
	if p.opts.trace != nil {
		locCfg.Trace = p.opts.trace
	}
	located, err := locator.New(locCfg).Locate(img)
	if err != nil {
		return nil, nil, &StageError{Image: p.name(), Stage: StageLocate, Err: err}
	}

	remCfg := p.opts.structure
	if p.opts.logger != nil {
		remCfg.Logger = p.opts.logger
	}
	if p.opts.trace != nil {
		remCfg.Trace = p.opts.trace
	}
	removed, err := structure.New(remCfg).Remove(located.Image)
	if err != nil {
		return nil, nil, &StageError{
			Image: p.name(),
			Stage: StageRemoveStructure,
			Box:   located.Contour.Box,
			Err:   err,
		}
	}

	cellCfg := p.opts.cells
	if p.opts.logger != nil {
		cellCfg.Logger = p.opts.logger
	}
	if p.opts.trace != nil {
		cellCfg.Trace = p.opts.trace
	}
	if p.opts.recognizer != nil {
		cellCfg.Recognizer = p.opts.recognizer
	}
	extracted, err := cells.New(cellCfg).Extract(removed.Text, located.Image)
	if err != nil {
		return nil, nil, &StageError{
			Image: p.name(),
			Stage: StageExtractCells,
			Box:   located.Contour.Box,
			Err:   err,
		}
	}

	var warnings []Warning
	for _, tb := range extracted.Failed {
		warnings = append(warnings, Warning{
			Stage:   StageExtractCells,
			Message: fmt.Sprintf("cell (%d,%d) at %s: recognition failed, left empty", tb.Row, tb.Col, tb.Box),
		})
	}
	return extracted, warnings, nil
}

// Table runs the pipeline and returns the extracted table.
//
// Returns the table, any warnings encountered during processing, and an
// error if a stage failed. Warnings indicate non-fatal issues where
// extraction succeeded but individual cells may be empty.
//
// Example:
//
//	table, warnings, err := tablesnap.Open("photo.jpg").Table()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tablesnap.FormatWarnings(warnings))
//	}
func (p *Pipeline) Table() (*model.Table, []Warning, error) {
	result, warnings, err := p.run()
	if err != nil {
		return nil, warnings, err
	}
	return result.Table, warnings, nil
}

// Cells runs the pipeline and returns the full extraction result: the
// table plus every detected box in reading order and the cells whose
// recognition failed.
//
// Example:
//
//	result, _, err := tablesnap.Open("photo.jpg").Cells()
//	for _, box := range result.Boxes {
//	    fmt.Printf("(%d,%d) %s\n", box.Row, box.Col, box.Box)
//	}
func (p *Pipeline) Cells() (*cells.Result, []Warning, error) {
	return p.run()
}

// Delimited runs the pipeline and renders the table as delimited text,
// one line per row with cells separated by the configured delimiter.
//
// Example:
//
//	text, _, err := tablesnap.Open("photo.jpg").
//	    With(tablesnap.WithDelimiter("\t")).
//	    Delimited()
func (p *Pipeline) Delimited() (string, []Warning, error) {
	table, warnings, err := p.Table()
	if err != nil {
		return "", warnings, err
	}
	return table.ToDelimited(p.opts.delimiter), warnings, nil
}

// Markdown runs the pipeline and renders the table as a Markdown table
// for quick human review.
//
// Example:
//
//	md, _, err := tablesnap.Open("photo.jpg").Markdown()
func (p *Pipeline) Markdown() (string, []Warning, error) {
	table, warnings, err := p.Table()
	if err != nil {
		return "", warnings, err
	}
	return table.ToMarkdown(), warnings, nil
}

// HTML runs the pipeline and renders the table as an HTML fragment with
// cell text escaped.
//
// Example:
//
//	fragment, _, err := tablesnap.Open("photo.jpg").HTML()
func (p *Pipeline) HTML() (string, []Warning, error) {
	table, warnings, err := p.Table()
	if err != nil {
		return "", warnings, err
	}
	return table.ToHTML(), warnings, nil
}
