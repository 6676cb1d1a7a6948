package review

import (
	"bytes"
	"strings"
	"testing"

	"snaporder/constants"
	"snaporder/internal/extract"
	"snaporder/internal/pipeline"
)

func reviewable(name string, status constants.RecordStatus) pipeline.ExtractionRecord {
	return pipeline.ExtractionRecord{
		FileName: name,
		Status:   status,
		Fields:   &extract.FieldSet{Items: []string{"Some Product Name"}},
	}
}

func runReview(t *testing.T, input string, records []pipeline.ExtractionRecord) []pipeline.ExtractionRecord {
	t.Helper()
	var out bytes.Buffer
	r := NewReviewer(strings.NewReader(input), &out, nil)
	return r.Run(records)
}

func TestReviewSkipsSuccessRecords(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("good.png", constants.StatusSuccess),
	}
	got := runReview(t, "", records)
	if len(got) != 1 {
		t.Fatalf("success record dropped: %v", got)
	}
}

func TestReviewDelete(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("bad.png", constants.StatusReviewRequired),
		reviewable("good.png", constants.StatusSuccess),
	}
	got := runReview(t, "d\n", records)
	if len(got) != 1 || got[0].FileName != "good.png" {
		t.Fatalf("delete misbehaved: %+v", got)
	}
}

func TestReviewEditPromotesToSuccess(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("fix.png", constants.StatusReviewRequired),
	}
	got := runReview(t, "e\n123-4567890-1234567\n", records)
	if len(got) != 1 {
		t.Fatalf("record lost during edit: %v", got)
	}
	if got[0].Status != constants.StatusSuccess {
		t.Fatalf("status = %s, want Success after valid id entered", got[0].Status)
	}
	if got[0].Fields.OrderIDs[0] != "123-4567890-1234567" {
		t.Fatalf("order id not applied: %v", got[0].Fields.OrderIDs)
	}
}

func TestReviewEditRejectsMalformedID(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("fix.png", constants.StatusReviewRequired),
	}
	got := runReview(t, "e\nnot-an-id\n", records)
	if got[0].Status != constants.StatusReviewRequired {
		t.Fatalf("malformed id changed status to %s", got[0].Status)
	}
}

func TestReviewQuitKeepsRemainder(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("one.png", constants.StatusFailed),
		reviewable("two.png", constants.StatusFailed),
		reviewable("three.png", constants.StatusFailed),
	}
	got := runReview(t, "s\nq\n", records)
	if len(got) != 3 {
		t.Fatalf("quit dropped records: %d kept", len(got))
	}
}

func TestReviewEOFBehavesAsQuit(t *testing.T) {
	records := []pipeline.ExtractionRecord{
		reviewable("one.png", constants.StatusFailed),
		reviewable("two.png", constants.StatusFailed),
	}
	got := runReview(t, "", records)
	if len(got) != 2 {
		t.Fatalf("EOF dropped records: %d kept", len(got))
	}
}
