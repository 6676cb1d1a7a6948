package imgproc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"snaporder/constants"
)

const (
	minDimension = 100
	maxDimension = 10000
)

// ErrLoad marks an unreadable, corrupt, undersized or oversized input image.
// The per-file processor maps it onto its own failure taxonomy.
var ErrLoad = errors.New("image load failed")

// LoadAndValidate opens an input screenshot and rejects anything the pipeline
// cannot work with. Every failure wraps ErrLoad so the processor can
// short-circuit to FailedLoad without attempting recognition.
func LoadAndValidate(path string, maxSizeMB int) (image.Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: file not found: %s", ErrLoad, path)
	}
	if maxSizeMB > 0 && st.Size() > int64(maxSizeMB)*1024*1024 {
		return nil, fmt.Errorf("%w: file too large: %.1fMB (max: %dMB)",
			ErrLoad, float64(st.Size())/(1024*1024), maxSizeMB)
	}
	if !constants.IsImageExt(filepath.Ext(path)) {
		return nil, fmt.Errorf("%w: unsupported file format: %s", ErrLoad, filepath.Ext(path))
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w < minDimension || h < minDimension {
		return nil, fmt.Errorf("%w: image too small: %dx%d (min: %dx%d)",
			ErrLoad, w, h, minDimension, minDimension)
	}
	if w > maxDimension || h > maxDimension {
		return nil, fmt.Errorf("%w: image too large: %dx%d (max: %dx%d)",
			ErrLoad, w, h, maxDimension, maxDimension)
	}
	return img, nil
}
