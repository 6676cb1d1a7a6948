package export

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"snaporder/constants"
	"snaporder/internal/pipeline"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	reviewColor  = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

// PrintSummary renders the batch outcome to the terminal.
func PrintSummary(s pipeline.Summary) {
	fmt.Println()
	headerColor.Println("=== Extraction Summary ===")
	fmt.Printf("Screenshots processed: %d in %.1fs\n", s.Total, s.Elapsed)
	successColor.Printf("  Success:          %d\n", s.Success)
	if s.ReviewRequired > 0 {
		reviewColor.Printf("  Review required:  %d\n", s.ReviewRequired)
	}
	if n := s.Failed + s.FailedLoad + s.Errors; n > 0 {
		failColor.Printf("  Failed:           %d (load: %d, errors: %d)\n", s.Failed, s.FailedLoad, s.Errors)
	}
	if s.Duplicates > 0 {
		dimColor.Printf("  Duplicate groups: %d\n", s.Duplicates)
	}
	fmt.Printf("Unique order IDs:  %d\n", s.UniqueOrderIDs)
	fmt.Printf("Items extracted:   %d\n", s.TotalItems)
	fmt.Printf("Avg confidence:    %.1f\n", s.AvgConfidence)
	if s.AIUsed > 0 {
		fmt.Printf("AI escalations:    %d\n", s.AIUsed)
	}
}

// PrintRecords lists each record one line at a time, colored by status.
func PrintRecords(records []pipeline.ExtractionRecord) {
	for _, r := range records {
		line := fmt.Sprintf("%-40s %-16s %5.1f  %s",
			truncateName(r.FileName, 40), r.Status, r.OverallConfidence,
			strings.Join(r.Fields.OrderIDs, listSep))
		switch r.Status {
		case constants.StatusSuccess:
			successColor.Println(line)
		case constants.StatusReviewRequired:
			reviewColor.Println(line)
		default:
			failColor.Println(line)
		}
	}
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
