package tablesnap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/tablesnap/cells"
	"github.com/tsawler/tablesnap/locator"
	"github.com/tsawler/tablesnap/raster"
	"github.com/tsawler/tablesnap/structure"
)

func TestParseProfileOverrides(t *testing.T) {
	doc := `
delimiter: "\t"
parallelism: 3

locator:
  threshold: {mode: adaptive, window: 31, c: 10, invert: true}
  scale_ratio: 0.8

structure:
  patterns:
    vertical-lines:
      erode: {width: 1, height: 8}
      erode_iterations: 6
      dilate: {width: 1, height: 8}
      dilate_iterations: 6
    icons: null
  min_component_area: 25

cells:
  dilation:
    - kernel: {width: 12, height: 3}
      iterations: 4
  pad_tolerance: 2
`
	p, err := ParseProfile([]byte(doc))
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}

	o := defaultOptions()
	for _, opt := range p.Options() {
		opt(&o)
	}

	if o.delimiter != "\t" {
		t.Errorf("delimiter = %q, want tab", o.delimiter)
	}
	if o.parallelism != 3 {
		t.Errorf("parallelism = %d, want 3", o.parallelism)
	}

	if o.locator.Threshold.Mode != raster.ThresholdAdaptive {
		t.Errorf("locator threshold mode = %v, want adaptive", o.locator.Threshold.Mode)
	}
	if o.locator.Threshold.Window != 31 || o.locator.Threshold.C != 10 {
		t.Errorf("locator threshold window/c = %d/%d, want 31/10",
			o.locator.Threshold.Window, o.locator.Threshold.C)
	}
	if !o.locator.Threshold.Invert {
		t.Error("locator threshold not inverted")
	}
	if o.locator.ScaleRatio != 0.8 {
		t.Errorf("scale ratio = %v, want 0.8", o.locator.ScaleRatio)
	}
	if want := locator.DefaultConfig().MinAreaRatio; o.locator.MinAreaRatio != want {
		t.Errorf("min area ratio = %v, want default %v", o.locator.MinAreaRatio, want)
	}

	if _, ok := o.structure.Patterns[structure.Icons]; ok {
		t.Error("null icons entry did not remove the pattern")
	}
	v := o.structure.Patterns[structure.VerticalLines]
	if v.Erode != raster.RectKernel(1, 8) || v.ErodeIterations != 6 {
		t.Errorf("vertical pattern erode = %s x%d, want 1x8 x6", v.Erode, v.ErodeIterations)
	}
	if want := structure.DefaultConfig().Patterns[structure.HorizontalLines]; o.structure.Patterns[structure.HorizontalLines] != want {
		t.Error("horizontal pattern drifted from its default")
	}
	if o.structure.MinComponentArea != 25 {
		t.Errorf("min component area = %d, want 25", o.structure.MinComponentArea)
	}
	if want := structure.DefaultConfig().Threshold; o.structure.Threshold != want {
		t.Error("structure threshold drifted from its default")
	}

	if len(o.cells.Dilation) != 1 {
		t.Fatalf("cells dilation passes = %d, want 1", len(o.cells.Dilation))
	}
	if pass := o.cells.Dilation[0]; pass.Kernel != raster.RectKernel(12, 3) || pass.Iterations != 4 {
		t.Errorf("cells dilation = %s x%d, want 12x3 x4", pass.Kernel, pass.Iterations)
	}
	if o.cells.PadTolerance != 2 {
		t.Errorf("pad tolerance = %d, want 2", o.cells.PadTolerance)
	}
	if want := cells.DefaultConfig().MinBoxArea; o.cells.MinBoxArea != want {
		t.Errorf("min box area = %d, want default %d", o.cells.MinBoxArea, want)
	}
}

func TestParseProfileEmpty(t *testing.T) {
	for _, doc := range []string{"", "# tuning notes only\n"} {
		p, err := ParseProfile([]byte(doc))
		if err != nil {
			t.Fatalf("ParseProfile(%q): %v", doc, err)
		}
		if len(p.Options()) != 0 {
			t.Errorf("ParseProfile(%q) produced %d options, want none", doc, len(p.Options()))
		}
	}
}

func TestParseProfileErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown key", "locator:\n  scal_ratio: 2\n"},
		{"unknown threshold mode", "structure:\n  threshold: {mode: fuzzy}\n"},
		{"unknown pattern", "structure:\n  patterns:\n    diagonal-lines:\n      erode: {width: 1, height: 6}\n"},
		{"zero kernel", "cells:\n  dilation:\n    - kernel: {width: 0, height: 2}\n"},
		{"malformed yaml", "cells: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseProfile([]byte(tc.doc)); err == nil {
				t.Errorf("ParseProfile(%q) succeeded, want error", tc.doc)
			}
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("delimiter: \";\"\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	o := defaultOptions()
	for _, opt := range p.Options() {
		opt(&o)
	}
	if o.delimiter != ";" {
		t.Errorf("delimiter = %q, want %q", o.delimiter, ";")
	}

	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing profile file")
	}
}

func TestProfileOptionsApply(t *testing.T) {
	p, err := ParseProfile([]byte("delimiter: \";\"\n"))
	if err != nil {
		t.Fatalf("ParseProfile: %v", err)
	}

	text, _, err := FromImage(tablePhoto(), p.Options()...).
		With(WithRecognizer(countingRecognizer())).
		Delimited()
	if err != nil {
		t.Fatalf("Delimited: %v", err)
	}
	want := "cell-1;cell-2\ncell-3;cell-4\n"
	if text != want {
		t.Errorf("Delimited() = %q, want %q", text, want)
	}
}
