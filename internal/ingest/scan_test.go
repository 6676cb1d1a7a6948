package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"snaporder/internal/common"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectoryFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".hidden.png"))
	touch(t, filepath.Join(dir, "sub", "c.webp"))
	touch(t, filepath.Join(dir, ".cache", "d.png"))

	got, err := ScanDirectory(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "sub", "c.webp"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	_, err := ScanDirectory("  ")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestScanDirectoryMissingRoot(t *testing.T) {
	_, err := ScanDirectory(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
