package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snaporder/constants"
	"snaporder/internal/common"
	"snaporder/internal/extract"
	"snaporder/internal/pipeline"
)

func sampleRecords() []pipeline.ExtractionRecord {
	return []pipeline.ExtractionRecord{
		{
			FileName:          "order1.png",
			Status:            constants.StatusSuccess,
			OverallConfidence: 92.5,
			OCRConfidence:     88.0,
			CropUsed:          "No Bottom 20%",
			Fields: &extract.FieldSet{
				OrderIDs: []string{"123-4567890-1234567"},
				Items:    []string{"Headphones", "Charging Cable"},
				Prices:   []string{"$39.99", "$9.99"},
				Totals:   []string{"$49.98"},
				Dates:    []string{"2024-01-05"},
			},
		},
		{
			FileName: "order2.png",
			Status:   constants.StatusFailed,
			Fields:   &extract.FieldSet{},
		},
	}
}

func TestPathForSwapsExtension(t *testing.T) {
	w := NewWriter(common.OutputConfig{Path: "out/results.csv"}, nil)
	cases := map[constants.OutputFormat]string{
		constants.FormatCSV:   "out/results.csv",
		constants.FormatExcel: "out/results.xlsx",
		constants.FormatJSON:  "out/results.json",
		constants.FormatHTML:  "out/results.html",
	}
	for format, want := range cases {
		if got := w.pathFor(format); got != want {
			t.Fatalf("pathFor(%s) = %q, want %q", format, got, want)
		}
	}
}

func TestRowJoinsListsWithSeparator(t *testing.T) {
	w := NewWriter(common.OutputConfig{Path: "x.csv"}, nil)
	row := w.row(sampleRecords()[0])

	headers := w.headers()
	if len(row) != len(headers) {
		t.Fatalf("row has %d cells for %d headers", len(row), len(headers))
	}
	itemsIdx := indexOfHeader(t, headers, "Items")
	if row[itemsIdx] != "Headphones | Charging Cable" {
		t.Fatalf("items cell = %q", row[itemsIdx])
	}
}

func TestDebugColumnsCarryBothImages(t *testing.T) {
	w := NewWriter(common.OutputConfig{Path: "x.csv", IncludeDebug: true}, nil)
	rec := sampleRecords()[0]
	rec.CroppedImage = "enh/shot_cropped_no_top_20.png"
	rec.ProcessedImage = "enh/shot_processed.png"

	headers := w.headers()
	row := w.row(rec)
	if got := row[indexOfHeader(t, headers, "Cropped Image")]; got != rec.CroppedImage {
		t.Fatalf("cropped cell = %q", got)
	}
	if got := row[indexOfHeader(t, headers, "Processed Image")]; got != rec.ProcessedImage {
		t.Fatalf("processed cell = %q", got)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(common.OutputConfig{
		Path:   filepath.Join(dir, "orders.csv"),
		Format: constants.FormatCSV,
	}, nil)

	records := sampleRecords()
	written, err := w.Write(records, pipeline.Summarize(records, 0))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("written = %v, want one file", written)
	}

	raw, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "\xEF\xBB\xBF") {
		t.Fatal("missing UTF-8 BOM")
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus two records", len(rows))
	}
	if rows[1][1] != "Success" || rows[2][1] != "Failed" {
		t.Fatalf("status cells = %q, %q", rows[1][1], rows[2][1])
	}
}

func TestWriteAllProducesEveryFormat(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(common.OutputConfig{
		Path:   filepath.Join(dir, "orders.csv"),
		Format: constants.FormatAll,
	}, nil)

	records := sampleRecords()
	written, err := w.Write(records, pipeline.Summarize(records, 0))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("written = %v, want csv, xlsx, json and html", written)
	}
	for _, p := range written {
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Fatalf("output %s missing or empty", p)
		}
	}
}

func indexOfHeader(t *testing.T, headers []string, name string) int {
	t.Helper()
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	t.Fatalf("header %q not found", name)
	return -1
}
