package ocr

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing newline", "ACME Corp\n", "ACME Corp"},
		{"embedded newlines", "two\nlines\f", "two lines"},
		{"whitespace runs", "  spaced \t out  ", "spaced out"},
		{"decomposed accent", "café", "café"},
		{"empty", "", ""},
		{"only whitespace", " \n\f ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.in); got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Language != "eng" {
		t.Errorf("Language = %q, want %q", cfg.Language, "eng")
	}
	if cfg.PSM != PSM_SINGLE_LINE {
		t.Errorf("PSM = %d, want PSM_SINGLE_LINE", cfg.PSM)
	}
	if cfg.FallbackPSM != PSM_SINGLE_BLOCK {
		t.Errorf("FallbackPSM = %d, want PSM_SINGLE_BLOCK", cfg.FallbackPSM)
	}
}
