package export

import (
	"encoding/json"
	"os"
	"time"

	"snaporder/internal/pipeline"
)

type jsonReport struct {
	GeneratedAt time.Time                   `json:"generated_at"`
	Summary     pipeline.Summary            `json:"summary"`
	Records     []pipeline.ExtractionRecord `json:"records"`
}

func (w *Writer) writeJSON(path string, records []pipeline.ExtractionRecord, summary pipeline.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		GeneratedAt: time.Now(),
		Summary:     summary,
		Records:     records,
	})
}
