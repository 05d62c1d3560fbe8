package tablesnap

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/tsawler/tablesnap/cells"
	"github.com/tsawler/tablesnap/locator"
	"github.com/tsawler/tablesnap/model"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/structure"
	"github.com/tsawler/tablesnap/trace"
)

// options holds the assembled pipeline configuration.
type options struct {
	locator     locator.Config
	structure   structure.Config
	cells       cells.Config
	recognizer  cells.Recognizer
	logger      *zap.Logger
	trace       *trace.Recorder
	delimiter   string
	parallelism int
}

// defaultOptions returns the stage defaults with recognition disabled.
func defaultOptions() options {
	return options{
		locator:     locator.DefaultConfig(),
		structure:   structure.DefaultConfig(),
		cells:       cells.DefaultConfig(),
		delimiter:   model.DefaultDelimiter,
		parallelism: runtime.NumCPU(),
	}
}

// clone creates a deep copy of options. The stage configs embed a map and
// slices, which must not be shared between pipeline instances.
func (o options) clone() options {
	out := o
	if o.structure.Patterns != nil {
		patterns := make(map[structure.Pattern]structure.KernelSpec, len(o.structure.Patterns))
		for p, spec := range o.structure.Patterns {
			patterns[p] = spec
		}
		out.structure.Patterns = patterns
	}
	out.structure.IconColors = append([]raster.ColorSpec(nil), o.structure.IconColors...)
	out.cells.Dilation = append([]cells.DilationPass(nil), o.cells.Dilation...)
	return out
}

// Option adjusts pipeline configuration. Options apply in order, so a
// later option overrides an earlier one touching the same setting.
type Option func(*options)

// WithLogger routes every stage's logging through log. Without it the
// pipeline is silent.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithRecognizer sets the recognition engine invoked per cell. Without it
// tables carry geometry and empty text.
func WithRecognizer(r cells.Recognizer) Option {
	return func(o *options) { o.recognizer = r }
}

// WithLocatorConfig replaces the table location settings.
func WithLocatorConfig(cfg locator.Config) Option {
	return func(o *options) { o.locator = cfg }
}

// WithStructureConfig replaces the structure removal settings.
func WithStructureConfig(cfg structure.Config) Option {
	return func(o *options) { o.structure = cfg }
}

// WithCellsConfig replaces the cell extraction settings.
func WithCellsConfig(cfg cells.Config) Option {
	return func(o *options) { o.cells = cfg }
}

// WithDelimiter sets the cell separator used by Delimited.
func WithDelimiter(delim string) Option {
	return func(o *options) { o.delimiter = delim }
}

// WithTrace records every intermediate stage image into rec, and writes
// numbered PNGs when rec has a directory. Meant for tuning sessions, not
// production.
func WithTrace(rec *trace.Recorder) Option {
	return func(o *options) { o.trace = rec }
}

// WithParallelism caps how many images ProcessBatch works on at once.
// Values below 1 restore the default of runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.parallelism = n
	}
}
