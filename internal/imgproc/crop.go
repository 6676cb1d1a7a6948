package imgproc

import (
	"image"

	"github.com/disintegration/imaging"
)

// minCropEdge is the smallest usable crop edge in pixels. Anything tighter
// loses too much context for recognition to be meaningful.
const minCropEdge = 50

// CropStrategy is a named rectangular sub-region defined by fractional margins
// relative to the image dimensions. The catalog order is significant: the
// crop search walks it front to back and keeps the first strategy to reach a
// given score.
type CropStrategy struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	Top    float64 `yaml:"top" mapstructure:"top"`
	Bottom float64 `yaml:"bottom" mapstructure:"bottom"`
	Left   float64 `yaml:"left" mapstructure:"left"`
	Right  float64 `yaml:"right" mapstructure:"right"`
}

// DefaultCropStrategies returns the built-in catalog. Screenshots usually bury
// the order summary under navigation chrome at the top or action buttons at
// the bottom, so edge-trimming strategies come first.
func DefaultCropStrategies() []CropStrategy {
	return []CropStrategy{
		{Name: "No Bottom 20%", Top: 0.0, Bottom: 0.2, Left: 0.0, Right: 0.0},
		{Name: "No Top 20%", Top: 0.2, Bottom: 0.0, Left: 0.0, Right: 0.0},
		{Name: "No Top 15%", Top: 0.15, Bottom: 0.0, Left: 0.0, Right: 0.0},
		{Name: "Center 80%", Top: 0.1, Bottom: 0.1, Left: 0.1, Right: 0.1},
		{Name: "Tight Center", Top: 0.1, Bottom: 0.1, Left: 0.05, Right: 0.05},
	}
}

// Apply computes the crop rectangle from the image's pixel dimensions and
// returns the cropped region. ok is false when the rectangle is degenerate
// (zero or negative extent) or smaller than the minimum usable size, in which
// case the strategy should be skipped.
func (s CropStrategy) Apply(img image.Image) (*image.NRGBA, bool) {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	startY := int(float64(h) * s.Top)
	endY := h - int(float64(h)*s.Bottom)
	startX := int(float64(w) * s.Left)
	endX := w - int(float64(w)*s.Right)

	if endY <= startY || endX <= startX {
		return nil, false
	}
	if endY-startY < minCropEdge || endX-startX < minCropEdge {
		return nil, false
	}

	rect := image.Rect(b.Min.X+startX, b.Min.Y+startY, b.Min.X+endX, b.Min.Y+endY)
	return imaging.Crop(img, rect), true
}
