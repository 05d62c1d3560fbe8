//go:build !ocr

package ocr

import (
	"errors"
	"image"

	"github.com/tsawler/tablesnap/cells"
)

var _ cells.Recognizer = (*Client)(nil)

// ErrOCRNotEnabled is returned when recognition is requested from a
// binary built without the ocr tag.
var ErrOCRNotEnabled = errors.New("ocr: not enabled; rebuild with -tags ocr")

// Client is the placeholder used when Tesseract support is not compiled
// in.
type Client struct{}

// New reports that OCR support is missing.
func New(cfg Config) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. Safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize always fails with ErrOCRNotEnabled.
func (c *Client) Recognize(img image.Image) (string, error) {
	return "", ErrOCRNotEnabled
}
