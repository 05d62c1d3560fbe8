package ocr

// Config holds the recognition settings shared by both builds of the
// client.
type Config struct {
	// Language selects the Tesseract language model. Multiple languages
	// join with "+", for example "eng+deu". Empty means "eng".
	Language string

	// PSM is the page segmentation mode for the first recognition pass.
	// A table cell is usually a single line of text.
	PSM PageSegMode

	// FallbackPSM runs a second pass when the first returns no text,
	// which recovers cells that wrap onto two lines. PSM_OSD_ONLY (the
	// zero value) disables the fallback.
	FallbackPSM PageSegMode
}

// DefaultConfig returns recognition settings tuned for table cells.
func DefaultConfig() Config {
	return Config{
		Language:    "eng",
		PSM:         PSM_SINGLE_LINE,
		FallbackPSM: PSM_SINGLE_BLOCK,
	}
}
