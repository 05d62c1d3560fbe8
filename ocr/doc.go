// Package ocr adapts the Tesseract engine to the cell recognition
// contract.
//
// Tesseract arrives via gosseract and needs the native library installed,
// so the real client sits behind the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag, New returns ErrOCRNotEnabled and the rest of the
// pipeline still works; tables come back with their geometry and empty
// text. To install the engine on macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr
