package imgproc

import (
	"image"
	"testing"
)

func TestCropStrategyApply(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 800))
	s := CropStrategy{Name: "No Bottom 20%", Top: 0, Bottom: 0.8, Left: 0, Right: 1}

	out, ok := s.Apply(img)
	if !ok {
		t.Fatal("crop should apply")
	}
	if out.Bounds().Dx() != 1000 || out.Bounds().Dy() != 640 {
		t.Fatalf("cropped to %v, want 1000x640", out.Bounds())
	}
}

func TestCropStrategySkipsDegenerateRegions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 800))
	cases := []CropStrategy{
		{Name: "inverted", Top: 0.8, Bottom: 0.2, Left: 0, Right: 1},
		{Name: "zero width", Top: 0, Bottom: 1, Left: 0.5, Right: 0.5},
	}
	for _, s := range cases {
		if _, ok := s.Apply(img); ok {
			t.Fatalf("%s: degenerate crop applied", s.Name)
		}
	}
}

func TestCropStrategySkipsTinyRegions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 60))
	// 200x60 image, keeping 80% of the height leaves 48px, below the minimum
	s := CropStrategy{Name: "tiny", Top: 0, Bottom: 0.8, Left: 0, Right: 1}
	if _, ok := s.Apply(img); ok {
		t.Fatal("sub-minimum crop applied")
	}
}

func TestDefaultCropStrategiesApplyToScreenshot(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1170, 2532))
	for _, s := range DefaultCropStrategies() {
		if _, ok := s.Apply(img); !ok {
			t.Fatalf("%s does not apply to a phone screenshot", s.Name)
		}
	}
}
