// Package tablesnap turns photographs of printed tables into structured
// row/column text.
//
// A photograph moves through three stages: the table outline is located
// and the perspective corrected, grid lines and icon marks are stripped
// while text pixels survive, and the remaining text blobs are ordered
// into a grid, sliced out, and handed to a pluggable recognition engine.
//
// Basic usage:
//
//	table, warnings, err := tablesnap.Open("photo.jpg").Table()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tablesnap.FormatWarnings(warnings))
//	}
//	fmt.Print(table.ToDelimited("|"))
//
// With options:
//
//	text, _, err := tablesnap.Open("photo.jpg",
//	    tablesnap.WithRecognizer(client),
//	    tablesnap.WithDelimiter("\t")).
//	    Delimited()
//
// For advanced use cases, the stage packages locator, structure and cells
// are also available directly.
package tablesnap

import "image"

// Open prepares a pipeline for a photograph on disk. The file is decoded
// when a terminal operation runs; JPEG, PNG, GIF, TIFF, BMP and WebP are
// supported, and EXIF orientation is applied.
//
// Example:
//
//	table, warnings, err := tablesnap.Open("photo.jpg").Table()
func Open(path string, opts ...Option) *Pipeline {
	p := &Pipeline{path: path, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// FromImage prepares a pipeline for an already decoded photograph.
//
// Example:
//
//	img, _, err := image.Decode(upload)
//	if err != nil {
//	    // handle error
//	}
//	table, warnings, err := tablesnap.FromImage(img).Table()
func FromImage(img image.Image, opts ...Option) *Pipeline {
	p := &Pipeline{img: img, opts: defaultOptions()}
	if img == nil {
		p.err = errNilImage
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	profile := tablesnap.Must(tablesnap.LoadProfile("tuning.yaml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTable is a helper that wraps a call to a terminal operation like
// Table() or Delimited() and panics if the error is non-nil. It discards
// warnings and returns just the value.
//
// Example:
//
//	table := tablesnap.MustTable(tablesnap.Open("photo.jpg").Table())
func MustTable[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
