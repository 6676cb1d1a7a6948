package imgproc

import (
	"image"
	"image/color"
	"testing"
)

func grayImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestAdaptiveThresholdSeparatesInkFromPaper(t *testing.T) {
	img := grayImage(100, 100, 220)
	// a dark glyph-sized blob in the middle
	for y := 40; y < 60; y++ {
		for x := 40; x < 60; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}

	out := adaptiveThreshold(img, 31, 15)

	if out.NRGBAAt(50, 50).R != 0 {
		t.Fatal("blob center should binarize to black")
	}
	if out.NRGBAAt(5, 5).R != 255 {
		t.Fatal("background should binarize to white")
	}
}

func TestAdaptiveThresholdUniformImageStaysWhite(t *testing.T) {
	out := adaptiveThreshold(grayImage(60, 60, 128), 31, 15)
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if out.NRGBAAt(x, y).R != 255 {
				t.Fatalf("uniform image produced ink at %d,%d", x, y)
			}
		}
	}
}

func TestDespeckleRemovesLonePixel(t *testing.T) {
	img := grayImage(30, 30, 255)
	img.Set(15, 15, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	out := despeckle(img)
	if out.NRGBAAt(15, 15).R != 255 {
		t.Fatalf("lone dark pixel survived the median filter: %v", out.NRGBAAt(15, 15))
	}
}

func TestPrepareForRecognitionUpscales(t *testing.T) {
	normal, inverted := PrepareForRecognition(grayImage(100, 80, 200), 2.0)
	if normal.Bounds().Dx() != 200 || normal.Bounds().Dy() != 160 {
		t.Fatalf("normal variant is %v, want 200x160", normal.Bounds())
	}
	if inverted.Bounds() != normal.Bounds() {
		t.Fatal("variants disagree on size")
	}
	// the two variants are complements
	if normal.NRGBAAt(10, 10).R == inverted.NRGBAAt(10, 10).R {
		t.Fatal("inverted variant equals normal variant")
	}
}
