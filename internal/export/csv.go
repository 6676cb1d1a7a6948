package export

import (
	"encoding/csv"
	"os"

	"snaporder/internal/pipeline"
)

// writeCSV emits the batch with a UTF-8 BOM so Excel opens non-ASCII product
// names correctly.
func (w *Writer) writeCSV(path string, records []pipeline.ExtractionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(w.headers()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(w.row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
