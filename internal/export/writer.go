package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"snaporder/constants"
	"snaporder/internal/common"
	"snaporder/internal/pipeline"
)

// listSep joins multi-value fields into one cell.
const listSep = " | "

// Writer renders a finished batch into the configured output format(s).
type Writer struct {
	cfg    common.OutputConfig
	logger *slog.Logger
}

func NewWriter(cfg common.OutputConfig, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{cfg: cfg, logger: logger}
}

// Write produces every requested output file and returns the written paths.
func (w *Writer) Write(records []pipeline.ExtractionRecord, summary pipeline.Summary) ([]string, error) {
	formats := []constants.OutputFormat{w.cfg.Format}
	if w.cfg.Format == constants.FormatAll {
		formats = []constants.OutputFormat{
			constants.FormatCSV, constants.FormatExcel,
			constants.FormatJSON, constants.FormatHTML,
		}
	}

	var written []string
	for _, format := range formats {
		start := time.Now()
		path := w.pathFor(format)
		var err error
		switch format {
		case constants.FormatCSV:
			err = w.writeCSV(path, records)
		case constants.FormatExcel:
			err = w.writeExcel(path, records)
		case constants.FormatJSON:
			err = w.writeJSON(path, records, summary)
		case constants.FormatHTML:
			err = w.writeHTML(path, records, summary)
		default:
			err = fmt.Errorf("unknown output format: %s", format)
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", format, err)
		}
		w.logger.Info("export.ok",
			"format", format,
			"path", path,
			"rows", len(records),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		written = append(written, path)
	}
	return written, nil
}

func (w *Writer) pathFor(format constants.OutputFormat) string {
	base := strings.TrimSuffix(w.cfg.Path, filepath.Ext(w.cfg.Path))
	switch format {
	case constants.FormatExcel:
		return base + ".xlsx"
	case constants.FormatJSON:
		return base + ".json"
	case constants.FormatHTML:
		return base + ".html"
	default:
		return base + ".csv"
	}
}

// headers returns the flat column set. Debug columns are appended only when
// configured so the default spreadsheet stays readable.
func (w *Writer) headers() []string {
	h := []string{
		"File Name", "Status", "Confidence", "OCR Confidence", "Crop Used",
		"Order IDs", "Items", "Prices", "Totals", "Dates",
		"Quantities", "Sellers", "Tracking Numbers",
		"AI Used", "AI Provider", "AI Status", "Validation Issues",
	}
	if w.cfg.IncludeRawText {
		h = append(h, "Raw Text")
	}
	if w.cfg.IncludeDebug {
		h = append(h, "Cropped Image", "Processed Image", "Error Detail", "Processed At")
	}
	return h
}

func (w *Writer) row(r pipeline.ExtractionRecord) []string {
	fs := r.Fields
	row := []string{
		r.FileName,
		string(r.Status),
		fmt.Sprintf("%.1f", r.OverallConfidence),
		fmt.Sprintf("%.1f", r.OCRConfidence),
		r.CropUsed,
		strings.Join(fs.OrderIDs, listSep),
		strings.Join(fs.Items, listSep),
		strings.Join(fs.Prices, listSep),
		strings.Join(fs.Totals, listSep),
		strings.Join(fs.Dates, listSep),
		strings.Join(fs.Quantities, listSep),
		strings.Join(fs.Sellers, listSep),
		strings.Join(fs.TrackingNumbers, listSep),
		fmt.Sprintf("%t", r.AIUsed),
		string(r.AIProvider),
		r.AIStatus,
		strings.Join(r.ValidationIssues, listSep),
	}
	if w.cfg.IncludeRawText {
		row = append(row, r.RawSnippet)
	}
	if w.cfg.IncludeDebug {
		row = append(row, r.CroppedImage, r.ProcessedImage, r.ErrorDetail, r.ProcessedAt.Format(time.RFC3339))
	}
	return row
}
