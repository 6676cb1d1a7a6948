package llm

import (
	"context"

	"snaporder/internal/extract"
)

// ExtractRequest carries one screenshot to a vision model.
type ExtractRequest struct {
	ImagePath string
	// OCRText gives the model the local recognition as a hint. May be empty.
	OCRText string
}

// FieldExtractor is the interface the pipeline depends on. The returned
// status is a human-readable provider outcome recorded on the extraction
// record, e.g. "OpenAI Success" or "Ollama Not Running (start with 'ollama
// serve')". Fields are nil exactly when err is non-nil.
type FieldExtractor interface {
	Name() string
	ExtractFields(ctx context.Context, req ExtractRequest) (*extract.FieldSet, string, error)
}
