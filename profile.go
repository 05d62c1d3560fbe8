package tablesnap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/tablesnap/cells"
	"github.com/tsawler/tablesnap/locator"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/structure"
)

// Profile is a set of pipeline options loaded from a YAML document, so
// tuning for a particular camera or form layout can live next to the
// photographs instead of in code. Each stage section starts from that
// stage's DefaultConfig and overrides only the keys the document sets.
//
// The document shape, with every key optional:
//
//	delimiter: "\t"
//	parallelism: 4
//
//	locator:
//	  threshold: {mode: otsu, invert: true}
//	  dilation: {width: 3, height: 3}
//	  dilation_iterations: 5
//	  min_area_ratio: 0.05
//	  ambiguity_ratio: 0.5
//	  scale_ratio: 0.9
//	  padding_percent: 10
//
//	structure:
//	  threshold: {mode: global, value: 127, invert: true}
//	  patterns:
//	    vertical-lines:
//	      erode: {width: 1, height: 6}
//	      erode_iterations: 10
//	      dilate: {width: 1, height: 6}
//	      dilate_iterations: 10
//	    icons: null        # a null entry disables that pattern
//	  mask_dilation: {width: 3, height: 3}
//	  mask_dilation_iterations: 5
//	  min_component_area: 10
//	  smooth: true
//	  smooth_kernel: {width: 2, height: 2}
//	  smooth_iterations: 1
//	  icon_colors:
//	    - {r: 255, g: 153, b: 0, tolerance: 12}
//
//	cells:
//	  dilation:
//	    - kernel: {width: 10, height: 2}
//	      iterations: 5
//	    - kernel: {width: 5, height: 5}
//	      iterations: 2
//	  min_box_area: 100
//	  max_box_area: 0
//	  min_height_ratio: 0
//	  row_tolerance: 0
//	  pad_tolerance: 1
//
// Threshold modes are "global", "otsu" and "adaptive"; adaptive thresholds
// take window and c keys. Unknown keys, unknown mode and pattern names,
// and kernels without positive dimensions are load errors.
//
// Example:
//
//	profile, err := tablesnap.LoadProfile("receipts.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, _, err := tablesnap.Open("photo.jpg", profile.Options()...).Table()
type Profile struct {
	opts []Option
}

// Options returns the profile as pipeline options, ready to pass to Open,
// FromImage or ProcessBatch.
func (p *Profile) Options() []Option {
	if p == nil {
		return nil
	}
	return p.opts
}

// LoadProfile reads and parses a YAML profile from a file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile parses a YAML profile document. An empty document yields a
// profile with no options.
func ParseProfile(data []byte) (*Profile, error) {
	var doc profileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return doc.profile()
}

// profileDoc mirrors the YAML document. Pointer fields distinguish an
// absent key from an explicit zero, which is what makes merging onto the
// stage defaults possible.
type profileDoc struct {
	Delimiter   *string `yaml:"delimiter"`
	Parallelism *int    `yaml:"parallelism"`

	Locator   *locatorDoc   `yaml:"locator"`
	Structure *structureDoc `yaml:"structure"`
	Cells     *cellsDoc     `yaml:"cells"`
}

type locatorDoc struct {
	Threshold          *thresholdDoc `yaml:"threshold"`
	Dilation           *kernelDoc    `yaml:"dilation"`
	DilationIterations *int          `yaml:"dilation_iterations"`
	MinAreaRatio       *float64      `yaml:"min_area_ratio"`
	AmbiguityRatio     *float64      `yaml:"ambiguity_ratio"`
	ScaleRatio         *float64      `yaml:"scale_ratio"`
	PaddingPercent     *int          `yaml:"padding_percent"`
}

type structureDoc struct {
	Threshold              *thresholdDoc          `yaml:"threshold"`
	Patterns               map[string]*patternDoc `yaml:"patterns"`
	MaskDilation           *kernelDoc             `yaml:"mask_dilation"`
	MaskDilationIterations *int                   `yaml:"mask_dilation_iterations"`
	MinComponentArea       *int                   `yaml:"min_component_area"`
	Smooth                 *bool                  `yaml:"smooth"`
	SmoothKernel           *kernelDoc             `yaml:"smooth_kernel"`
	SmoothIterations       *int                   `yaml:"smooth_iterations"`
	IconColors             []colorDoc             `yaml:"icon_colors"`
}

type cellsDoc struct {
	Dilation       []dilationPassDoc `yaml:"dilation"`
	MinBoxArea     *int              `yaml:"min_box_area"`
	MaxBoxArea     *int              `yaml:"max_box_area"`
	MinHeightRatio *float64          `yaml:"min_height_ratio"`
	RowTolerance   *int              `yaml:"row_tolerance"`
	PadTolerance   *int              `yaml:"pad_tolerance"`
}

type thresholdDoc struct {
	Mode   string `yaml:"mode"`
	Value  uint8  `yaml:"value"`
	Window int    `yaml:"window"`
	C      int    `yaml:"c"`
	Invert bool   `yaml:"invert"`
}

type kernelDoc struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type patternDoc struct {
	Erode            kernelDoc `yaml:"erode"`
	ErodeIterations  int       `yaml:"erode_iterations"`
	Dilate           kernelDoc `yaml:"dilate"`
	DilateIterations int       `yaml:"dilate_iterations"`
}

type colorDoc struct {
	R         uint8 `yaml:"r"`
	G         uint8 `yaml:"g"`
	B         uint8 `yaml:"b"`
	Tolerance int   `yaml:"tolerance"`
}

type dilationPassDoc struct {
	Kernel     kernelDoc `yaml:"kernel"`
	Iterations int       `yaml:"iterations"`
}

// profile converts the document into options, validating as it goes.
func (d *profileDoc) profile() (*Profile, error) {
	var opts []Option
	if d.Delimiter != nil {
		opts = append(opts, WithDelimiter(*d.Delimiter))
	}
	if d.Parallelism != nil {
		opts = append(opts, WithParallelism(*d.Parallelism))
	}
	if d.Locator != nil {
		cfg, err := d.Locator.config()
		if err != nil {
			return nil, fmt.Errorf("profile: locator: %w", err)
		}
		opts = append(opts, WithLocatorConfig(cfg))
	}
	if d.Structure != nil {
		cfg, err := d.Structure.config()
		if err != nil {
			return nil, fmt.Errorf("profile: structure: %w", err)
		}
		opts = append(opts, WithStructureConfig(cfg))
	}
	if d.Cells != nil {
		cfg, err := d.Cells.config()
		if err != nil {
			return nil, fmt.Errorf("profile: cells: %w", err)
		}
		opts = append(opts, WithCellsConfig(cfg))
	}
	return &Profile{opts: opts}, nil
}

func (d *locatorDoc) config() (locator.Config, error) {
	cfg := locator.DefaultConfig()
	if d.Threshold != nil {
		spec, err := d.Threshold.spec()
		if err != nil {
			return cfg, err
		}
		cfg.Threshold = spec
	}
	if d.Dilation != nil {
		k, err := d.Dilation.kernel()
		if err != nil {
			return cfg, fmt.Errorf("dilation: %w", err)
		}
		cfg.Dilation = k
	}
	if d.DilationIterations != nil {
		cfg.DilationIterations = *d.DilationIterations
	}
	if d.MinAreaRatio != nil {
		cfg.MinAreaRatio = *d.MinAreaRatio
	}
	if d.AmbiguityRatio != nil {
		cfg.AmbiguityRatio = *d.AmbiguityRatio
	}
	if d.ScaleRatio != nil {
		cfg.ScaleRatio = *d.ScaleRatio
	}
	if d.PaddingPercent != nil {
		cfg.PaddingPercent = *d.PaddingPercent
	}
	return cfg, nil
}

func (d *structureDoc) config() (structure.Config, error) {
	cfg := structure.DefaultConfig()
	if d.Threshold != nil {
		spec, err := d.Threshold.spec()
		if err != nil {
			return cfg, err
		}
		cfg.Threshold = spec
	}
	for name, pat := range d.Patterns {
		key, err := patternByName(name)
		if err != nil {
			return cfg, err
		}
		if pat == nil {
			delete(cfg.Patterns, key)
			continue
		}
		spec, err := pat.spec()
		if err != nil {
			return cfg, fmt.Errorf("pattern %s: %w", name, err)
		}
		cfg.Patterns[key] = spec
	}
	if d.MaskDilation != nil {
		k, err := d.MaskDilation.kernel()
		if err != nil {
			return cfg, fmt.Errorf("mask_dilation: %w", err)
		}
		cfg.MaskDilation = k
	}
	if d.MaskDilationIterations != nil {
		cfg.MaskDilationIterations = *d.MaskDilationIterations
	}
	if d.MinComponentArea != nil {
		cfg.MinComponentArea = *d.MinComponentArea
	}
	if d.Smooth != nil {
		cfg.Smooth = *d.Smooth
	}
	if d.SmoothKernel != nil {
		k, err := d.SmoothKernel.kernel()
		if err != nil {
			return cfg, fmt.Errorf("smooth_kernel: %w", err)
		}
		cfg.SmoothKernel = k
	}
	if d.SmoothIterations != nil {
		cfg.SmoothIterations = *d.SmoothIterations
	}
	if d.IconColors != nil {
		colors := make([]raster.ColorSpec, len(d.IconColors))
		for i, c := range d.IconColors {
			colors[i] = raster.ColorSpec{R: c.R, G: c.G, B: c.B, Tolerance: c.Tolerance}
		}
		cfg.IconColors = colors
	}
	return cfg, nil
}

func (d *cellsDoc) config() (cells.Config, error) {
	cfg := cells.DefaultConfig()
	if d.Dilation != nil {
		passes := make([]cells.DilationPass, len(d.Dilation))
		for i, pass := range d.Dilation {
			k, err := pass.Kernel.kernel()
			if err != nil {
				return cfg, fmt.Errorf("dilation pass %d: %w", i, err)
			}
			passes[i] = cells.DilationPass{Kernel: k, Iterations: pass.Iterations}
		}
		cfg.Dilation = passes
	}
	if d.MinBoxArea != nil {
		cfg.MinBoxArea = *d.MinBoxArea
	}
	if d.MaxBoxArea != nil {
		cfg.MaxBoxArea = *d.MaxBoxArea
	}
	if d.MinHeightRatio != nil {
		cfg.MinHeightRatio = *d.MinHeightRatio
	}
	if d.RowTolerance != nil {
		cfg.RowTolerance = *d.RowTolerance
	}
	if d.PadTolerance != nil {
		cfg.PadTolerance = *d.PadTolerance
	}
	return cfg, nil
}

func (d *thresholdDoc) spec() (raster.ThresholdSpec, error) {
	var mode raster.ThresholdMode
	switch d.Mode {
	case "", "global":
		mode = raster.ThresholdGlobal
	case "otsu":
		mode = raster.ThresholdOtsu
	case "adaptive":
		mode = raster.ThresholdAdaptive
	default:
		return raster.ThresholdSpec{}, fmt.Errorf("unknown threshold mode %q", d.Mode)
	}
	return raster.ThresholdSpec{
		Mode:   mode,
		Value:  d.Value,
		Window: d.Window,
		C:      d.C,
		Invert: d.Invert,
	}, nil
}

func (d kernelDoc) kernel() (raster.Kernel, error) {
	if d.Width < 1 || d.Height < 1 {
		return raster.Kernel{}, fmt.Errorf("kernel %dx%d needs positive dimensions", d.Width, d.Height)
	}
	return raster.RectKernel(d.Width, d.Height), nil
}

func (d *patternDoc) spec() (structure.KernelSpec, error) {
	erode, err := d.Erode.kernel()
	if err != nil {
		return structure.KernelSpec{}, fmt.Errorf("erode: %w", err)
	}
	dilate, err := d.Dilate.kernel()
	if err != nil {
		return structure.KernelSpec{}, fmt.Errorf("dilate: %w", err)
	}
	return structure.KernelSpec{
		Erode:            erode,
		ErodeIterations:  d.ErodeIterations,
		Dilate:           dilate,
		DilateIterations: d.DilateIterations,
	}, nil
}

// patternByName maps YAML pattern keys to their Pattern values, using the
// same names Pattern.String prints.
func patternByName(name string) (structure.Pattern, error) {
	switch name {
	case structure.VerticalLines.String():
		return structure.VerticalLines, nil
	case structure.HorizontalLines.String():
		return structure.HorizontalLines, nil
	case structure.Icons.String():
		return structure.Icons, nil
	default:
		return 0, fmt.Errorf("unknown pattern %q", name)
	}
}
