package raster

import (
	"image"
	"testing"
)

func TestGlobalThreshold(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{0, 126, 127, 128, 255},
	})

	bin := Threshold(img, GlobalThreshold(127))
	want := []uint8{0, 0, 0, 255, 255}
	for x, w := range want {
		if got := bin.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d = %d, want %d", x, got, w)
		}
	}
}

func TestGlobalThresholdInvert(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{0, 255},
	})

	spec := GlobalThreshold(127)
	spec.Invert = true
	bin := Threshold(img, spec)
	if bin.GrayAt(0, 0).Y != 255 || bin.GrayAt(1, 0).Y != 0 {
		t.Errorf("inverted threshold = %d,%d, want 255,0",
			bin.GrayAt(0, 0).Y, bin.GrayAt(1, 0).Y)
	}
}

func TestOtsuSeparatesBimodal(t *testing.T) {
	// Two clearly separated intensity populations: Otsu must split them
	// regardless of where they sit on the scale.
	tests := []struct {
		name     string
		dark, lt uint8
	}{
		{"black on white", 10, 245},
		{"dark gray on light gray", 80, 170},
		{"low contrast", 100, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewGray(image.Rect(0, 0, 20, 20))
			fillRect(img, image.Rect(0, 0, 20, 20), tt.lt)
			fillRect(img, image.Rect(5, 5, 15, 15), tt.dark)

			bin := Threshold(img, OtsuThreshold())
			if got := bin.GrayAt(10, 10).Y; got != 0 {
				t.Errorf("dark population = %d, want 0", got)
			}
			if got := bin.GrayAt(0, 0).Y; got != 255 {
				t.Errorf("light population = %d, want 255", got)
			}
		})
	}
}

func TestOtsuUniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	fillRect(img, image.Rect(0, 0, 10, 10), 200)

	// A single population cannot be split; all pixels must land on the
	// same side.
	bin := Threshold(img, OtsuThreshold())
	first := bin.GrayAt(0, 0).Y
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if bin.GrayAt(x, y).Y != first {
				t.Fatalf("pixel (%d,%d) = %d, want uniform %d", x, y, bin.GrayAt(x, y).Y, first)
			}
		}
	}
}

func TestAdaptiveThresholdHandlesGradient(t *testing.T) {
	// A dark dot on a background whose brightness ramps from 80 to 240.
	// A global cutoff cannot hold both ends; the adaptive mean does.
	img := image.NewGray(image.Rect(0, 0, 64, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			img.Pix[y*img.Stride+x] = uint8(80 + (160*x)/63)
		}
	}
	// Dots well below their local background at both ends.
	fillRect(img, image.Rect(4, 6, 8, 10), 20)
	fillRect(img, image.Rect(56, 6, 60, 10), 120)

	bin := Threshold(img, AdaptiveThreshold(15, 10))

	if got := bin.GrayAt(6, 8).Y; got != 0 {
		t.Errorf("dark-end dot = %d, want 0", got)
	}
	if got := bin.GrayAt(58, 8).Y; got != 0 {
		t.Errorf("bright-end dot = %d, want 0", got)
	}
	if got := bin.GrayAt(30, 2).Y; got != 255 {
		t.Errorf("background = %d, want 255", got)
	}
}

func TestAdaptiveThresholdWindowNormalized(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	fillRect(img, image.Rect(0, 0, 8, 8), 200)

	// Even and undersized windows are normalized rather than rejected.
	for _, w := range []int{0, 2, 4} {
		bin := Threshold(img, AdaptiveThreshold(w, 5))
		if bin.Bounds().Dx() != 8 || bin.Bounds().Dy() != 8 {
			t.Errorf("window %d: size = %dx%d, want 8x8", w, bin.Bounds().Dx(), bin.Bounds().Dy())
		}
	}
}

func TestThresholdModeString(t *testing.T) {
	tests := []struct {
		mode ThresholdMode
		want string
	}{
		{ThresholdGlobal, "global"},
		{ThresholdOtsu, "otsu"},
		{ThresholdAdaptive, "adaptive"},
		{ThresholdMode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
