//go:build ocr

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/tablesnap/cells"
)

var _ cells.Recognizer = (*Client)(nil)

// Client recognizes cell images with a Tesseract engine. It is not safe
// for concurrent use; the pipeline calls it sequentially, and batch
// processing should give each image its own client.
type Client struct {
	client *gosseract.Client
	cfg    Config
}

// New starts a Tesseract client with the given configuration. Close it
// when no longer needed to release the engine.
func New(cfg Config) (*Client, error) {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("ocr: set language %q: %w", cfg.Language, err)
	}
	return &Client{client: client, cfg: cfg}, nil
}

// Close releases the engine. Safe to call more than once.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Recognize runs the engine over one cell image and returns a single
// normalized line of text. When the first pass comes back empty, the
// fallback page segmentation mode gets a second try before the cell is
// reported blank.
func (c *Client) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("ocr: encode cell: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}

	text, err := c.recognizeWith(c.cfg.PSM)
	if err != nil {
		return "", err
	}
	if text == "" && c.cfg.FallbackPSM != PSM_OSD_ONLY && c.cfg.FallbackPSM != c.cfg.PSM {
		return c.recognizeWith(c.cfg.FallbackPSM)
	}
	return text, nil
}

func (c *Client) recognizeWith(mode PageSegMode) (string, error) {
	if err := c.client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
		return "", fmt.Errorf("ocr: set page segmentation mode %d: %w", mode, err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return normalizeText(text), nil
}
