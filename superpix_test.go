package superpix

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func checkerboard2x2() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, A: 255})
	return img
}

func TestSegmentRejectsEmptyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	_, err := Segment(img, DefaultConfig())
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Segment on empty image: err = %v, want ErrInvalidParameter", err)
	}
}

func TestSegmentRejectsKLessThanTwo(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{A: 255})
	cfg := DefaultConfig()
	cfg.K = 1
	_, err := Segment(img, cfg)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Segment with K=1: err = %v, want ErrInvalidParameter", err)
	}
}

func TestSegmentRejectsMOutOfRange(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{A: 255})
	cfg := Config{Algorithm: Snic, K: 4, M: 21, Iterations: 5, MinComponentFraction: 0.25}
	_, err := Segment(img, cfg)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Segment with M=21: err = %v, want ErrInvalidParameter", err)
	}
}

func TestSegmentUniformImageLabelsEveryPixel(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	cfg := DefaultConfig()
	cfg.K = 16
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if result.K < 1 {
		t.Errorf("K = %d, want at least 1", result.K)
	}
	if len(result.Labels) != 400 {
		t.Fatalf("len(Labels) = %d, want 400", len(result.Labels))
	}
}

func TestSegmentCheckerboardSNIC(t *testing.T) {
	img := checkerboard2x2()
	cfg := Config{Algorithm: Snic, K: 4, M: 10, Iterations: 10, MinComponentFraction: 0.25}
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if result.K != 4 {
		t.Errorf("K = %d, want 4", result.K)
	}
	if countDistinct(result.Labels) != 4 {
		t.Errorf("distinct labels = %d, want 4", countDistinct(result.Labels))
	}
}

func TestSegmentSLICProducesValidLabels(t *testing.T) {
	img := solidImage(16, 16, color.RGBA{A: 255})
	for x := 8; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	cfg := Config{Algorithm: Slic, K: 4, M: 10, Iterations: 10, MinComponentFraction: 0.25}
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	for i, l := range result.Labels {
		if l < 0 || int(l) >= result.K {
			t.Errorf("pixel %d has label %d out of range [0,%d)", i, l, result.K)
		}
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	img := solidImage(24, 24, color.RGBA{A: 255})
	for x := 0; x < 24; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: uint8((x * 7) % 251), G: uint8((y * 13) % 251), B: uint8((x + y) % 251), A: 255})
		}
	}
	cfg := DefaultConfig()
	cfg.K = 20

	r1, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	r2, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if r1.K != r2.K {
		t.Fatalf("K differs between runs: %d vs %d", r1.K, r2.K)
	}
	for i := range r1.Labels {
		if r1.Labels[i] != r2.Labels[i] {
			t.Fatalf("pixel %d differs between runs: %d vs %d", i, r1.Labels[i], r2.Labels[i])
		}
	}
}

func TestSegmentDegenerateTinyImageFallsBackToOneLabel(t *testing.T) {
	img := solidImage(1, 1, color.RGBA{A: 255})
	cfg := DefaultConfig()
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if result.K != 1 {
		t.Errorf("K = %d, want 1 for a degenerate 1x1 image", result.K)
	}
	if result.Labels[0] != 0 {
		t.Errorf("Labels[0] = %d, want 0", result.Labels[0])
	}
}

func TestResultMeanColorImageMatchesBounds(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 200, G: 50, B: 50, A: 255})
	cfg := DefaultConfig()
	cfg.K = 4
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	mean := result.MeanColorImage()
	if mean.Bounds().Dx() != 10 || mean.Bounds().Dy() != 10 {
		t.Errorf("mean image bounds = %v, want 10x10", mean.Bounds())
	}
}

func TestResultContourOverlayPreservesBase(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	cfg := DefaultConfig()
	cfg.K = 4
	result, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	overlay := result.ContourOverlay(img, color.RGBA{R: 255, A: 255})
	if overlay.Bounds().Dx() != 10 || overlay.Bounds().Dy() != 10 {
		t.Errorf("overlay bounds = %v, want 10x10", overlay.Bounds())
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{R: 10, G: 10, B: 10, A: 255}) {
				t.Errorf("base pixel (%d,%d) = %v, was modified by ContourOverlay", x, y, img.RGBAAt(x, y))
			}
		}
	}
}
