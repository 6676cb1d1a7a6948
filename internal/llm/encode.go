package llm

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

// encodeImage reads a screenshot and returns its base64 payload plus MIME
// type, which is what every vision API wants.
func encodeImage(path string) (b64, mimeType string, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		mimeType = "image/png"
	case "jpg", "jpeg":
		mimeType = "image/jpeg"
	case "webp":
		mimeType = "image/webp"
	default:
		mimeType = "image/png"
	}
	return base64.StdEncoding.EncodeToString(b), mimeType, nil
}
