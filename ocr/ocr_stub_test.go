//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestNewNotEnabled(t *testing.T) {
	client, err := New(DefaultConfig())
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("got %v, want ErrOCRNotEnabled", err)
	}
	if client != nil {
		t.Error("expected nil client")
	}
}

func TestStubClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}

	_, err := (&Client{}).Recognize(image.NewGray(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Recognize returned %v, want ErrOCRNotEnabled", err)
	}
}
