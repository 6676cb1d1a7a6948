package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"snaporder/constants"
	"snaporder/internal/common"
)

// ScanDirectory walks root and returns every screenshot path in stable
// sorted order. Hidden files and directories are skipped.
func ScanDirectory(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: input folder is required", common.ErrInvalidInput)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if constants.IsImageExt(filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", common.ErrInvalidInput, root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
