package pipeline

import (
	"time"

	"snaporder/constants"
	"snaporder/internal/extract"
)

// ExtractionRecord is the per-screenshot result row. Every output format and
// the review loop work off this shape.
type ExtractionRecord struct {
	FileName          string                 `json:"file_name"`
	Status            constants.RecordStatus `json:"status"`
	OverallConfidence float64                `json:"overall_confidence"`
	OCRConfidence     float64                `json:"ocr_confidence"`
	CropUsed          string                 `json:"crop_used"`
	Fields            *extract.FieldSet      `json:"fields"`

	AIUsed     bool                 `json:"ai_used"`
	AIProvider constants.AIProvider `json:"ai_provider,omitempty"`
	AIStatus   string               `json:"ai_status,omitempty"`

	ValidationIssues []string `json:"validation_issues,omitempty"`
	RawSnippet       string   `json:"raw_snippet,omitempty"`
	CroppedImage     string   `json:"cropped_image,omitempty"`
	ProcessedImage   string   `json:"processed_image,omitempty"`
	ErrorDetail      string   `json:"error_detail,omitempty"`
	IsDuplicate      bool     `json:"is_duplicate,omitempty"`

	ProcessedAt time.Time     `json:"processed_at"`
	Duration    time.Duration `json:"-"`
}

// Summary aggregates a finished batch for analytics output.
type Summary struct {
	Total          int     `json:"total"`
	Success        int     `json:"success"`
	ReviewRequired int     `json:"review_required"`
	Failed         int     `json:"failed"`
	FailedLoad     int     `json:"failed_load"`
	Errors         int     `json:"errors"`
	Duplicates     int     `json:"duplicates"`
	AIUsed         int     `json:"ai_used"`
	AvgConfidence  float64 `json:"avg_confidence"`
	UniqueOrderIDs int     `json:"unique_order_ids"`
	TotalItems     int     `json:"total_items"`
	Elapsed        float64 `json:"elapsed_seconds"`
}

// Summarize rolls a record batch up into counts and averages.
func Summarize(records []ExtractionRecord, elapsed time.Duration) Summary {
	s := Summary{Total: len(records), Elapsed: elapsed.Seconds()}
	orderIDs := map[string]struct{}{}
	var confSum float64
	for _, r := range records {
		switch r.Status {
		case constants.StatusSuccess:
			s.Success++
		case constants.StatusReviewRequired:
			s.ReviewRequired++
		case constants.StatusFailed:
			s.Failed++
		case constants.StatusFailedLoad:
			s.FailedLoad++
		case constants.StatusError:
			s.Errors++
		}
		if r.IsDuplicate {
			s.Duplicates++
		}
		if r.AIUsed {
			s.AIUsed++
		}
		confSum += r.OverallConfidence
		if r.Fields != nil {
			for _, id := range r.Fields.OrderIDs {
				orderIDs[id] = struct{}{}
			}
			s.TotalItems += len(r.Fields.Items)
		}
	}
	if s.Total > 0 {
		s.AvgConfidence = confSum / float64(s.Total)
	}
	s.UniqueOrderIDs = len(orderIDs)
	return s
}
