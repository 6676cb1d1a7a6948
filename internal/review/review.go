// Package review implements the interactive pass over records that need a
// human decision before export.
package review

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"snaporder/constants"
	"snaporder/internal/extract"
	"snaporder/internal/pipeline"
)

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	fieldColor  = color.New(color.FgYellow)
)

// Reviewer walks non-success records and lets the operator fix, keep, or
// drop each one.
type Reviewer struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func NewReviewer(in io.Reader, out io.Writer, logger *slog.Logger) *Reviewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{in: bufio.NewScanner(in), out: out, logger: logger}
}

// Run returns the record set after review. Skipped records pass through
// unchanged, deleted ones are removed, edits overwrite the order ID and
// re-derive the status.
func (r *Reviewer) Run(records []pipeline.ExtractionRecord) []pipeline.ExtractionRecord {
	out := make([]pipeline.ExtractionRecord, 0, len(records))
	reviewed, deleted := 0, 0

	for i := 0; i < len(records); i++ {
		rec := records[i]
		if rec.Status == constants.StatusSuccess {
			out = append(out, rec)
			continue
		}
		reviewed++
		r.show(rec)

		switch r.ask() {
		case "d":
			deleted++
			r.logger.Info("review.record.deleted", "file", rec.FileName)
		case "e":
			out = append(out, r.edit(rec))
		case "q":
			out = append(out, records[i:]...)
			r.logger.Info("review.quit", "reviewed", reviewed, "deleted", deleted)
			return out
		default:
			out = append(out, rec)
		}
	}
	r.logger.Info("review.done", "reviewed", reviewed, "deleted", deleted)
	return out
}

func (r *Reviewer) show(rec pipeline.ExtractionRecord) {
	fmt.Fprintln(r.out)
	promptColor.Fprintf(r.out, "--- %s (%s, confidence %.1f) ---\n",
		rec.FileName, rec.Status, rec.OverallConfidence)
	fieldColor.Fprintf(r.out, "Order IDs: %s\n", strings.Join(rec.Fields.OrderIDs, ", "))
	fieldColor.Fprintf(r.out, "Items:     %s\n", strings.Join(rec.Fields.Items, ", "))
	if len(rec.ValidationIssues) > 0 {
		fmt.Fprintf(r.out, "Issues:    %s\n", strings.Join(rec.ValidationIssues, "; "))
	}
	if rec.RawSnippet != "" {
		fmt.Fprintf(r.out, "Text:      %s\n", rec.RawSnippet)
	}
}

func (r *Reviewer) ask() string {
	fmt.Fprint(r.out, "[s]kip / [e]dit / [d]elete / [q]uit review: ")
	if !r.in.Scan() {
		return "q"
	}
	return strings.ToLower(strings.TrimSpace(r.in.Text()))
}

func (r *Reviewer) edit(rec pipeline.ExtractionRecord) pipeline.ExtractionRecord {
	fmt.Fprint(r.out, "Enter order ID (XXX-XXXXXXX-XXXXXXX), empty to keep: ")
	if !r.in.Scan() {
		return rec
	}
	id := strings.TrimSpace(r.in.Text())
	if id == "" {
		return rec
	}
	if !extract.ValidateOrderID(id) {
		fmt.Fprintln(r.out, "Not a valid order ID, keeping record as is.")
		return rec
	}
	rec.Fields.OrderIDs = []string{id}
	rec.Status = pipeline.DeriveStatus(rec.Fields)
	_, rec.ValidationIssues = extract.ValidateExtraction(rec.Fields)
	r.logger.Info("review.record.edited", "file", rec.FileName, "order_id", id)
	return rec
}
