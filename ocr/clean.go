package ocr

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText flattens raw engine output into one line of composed
// text. Tesseract reports multi-line regions with embedded newlines and a
// trailing form feed, and some language models emit decomposed accents.
func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
