package imgproc

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := imaging.Save(image.NewNRGBA(image.Rect(0, 0, w, h)), path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndValidateOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	writePNG(t, path, 400, 300)

	img, err := LoadAndValidate(path, 50)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestLoadAndValidateRejectsTinyImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.png")
	writePNG(t, path, 50, 50)

	_, err := LoadAndValidate(path, 50)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}

func TestLoadAndValidateRejectsMissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.png"), 50)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}

func TestLoadAndValidateRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAndValidate(path, 50)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}

func TestLoadAndValidateSizeLimitBeforeDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	// 2MB of junk; the size gate must fire before any decode attempt
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, 2<<20), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAndValidate(path, 1)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}
