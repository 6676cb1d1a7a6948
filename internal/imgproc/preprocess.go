package imgproc

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

const (
	thresholdWindow = 31
	thresholdBias   = 15
)

// PrepareForRecognition runs the enhancement chain used before OCR:
// grayscale, despeckle, cubic upscale, then mean adaptive threshold.
// Screenshots come in both dark-on-light and light-on-dark themes, so the
// inverted variant is produced as well and the caller keeps whichever
// recognizes better.
func PrepareForRecognition(img image.Image, upscale float64) (normal, inverted *image.NRGBA) {
	gray := imaging.Grayscale(img)
	gray = despeckle(gray)
	if upscale > 1.0 {
		w := int(float64(gray.Bounds().Dx()) * upscale)
		gray = imaging.Resize(gray, w, 0, imaging.CatmullRom)
	}
	normal = adaptiveThreshold(gray, thresholdWindow, thresholdBias)
	inverted = imaging.Invert(normal)
	return normal, inverted
}

// despeckle applies a 3x3 median filter to a grayscale image. It removes
// single-pixel compression noise that otherwise survives thresholding as
// spurious glyphs.
func despeckle(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	window := make([]uint8, 0, 9)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					x2, y2 := x+dx, y+dy
					if x2 < 0 || y2 < 0 || x2 >= w || y2 >= h {
						continue
					}
					window = append(window, img.Pix[y2*img.Stride+x2*4])
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			v := window[len(window)/2]
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// adaptiveThreshold binarizes against the local mean over a window, computed
// with a summed-area table so the cost stays linear in the pixel count.
// A pixel goes black when it is at least bias darker than its neighborhood.
func adaptiveThreshold(img *image.NRGBA, window, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	half := window / 2

	ints := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(img.Pix[y*img.Stride+x*4])
			idx := y*w + x
			if y == 0 {
				ints[idx] = rowSum
			} else {
				ints[idx] = ints[(y-1)*w+x] + rowSum
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			sum := ints[y1*w+x1]
			if x0 > 0 {
				sum -= ints[y1*w+x0-1]
			}
			if y0 > 0 {
				sum -= ints[(y0-1)*w+x1]
			}
			if x0 > 0 && y0 > 0 {
				sum += ints[(y0-1)*w+x0-1]
			}
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			pix := int(img.Pix[y*img.Stride+x*4])
			if pix < mean-bias {
				out.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return out
}
