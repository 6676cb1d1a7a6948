package pipeline

import (
	"testing"
	"time"

	"snaporder/constants"
	"snaporder/internal/extract"
)

func TestShouldUseAI(t *testing.T) {
	complete := &extract.FieldSet{
		OrderIDs: []string{"123-4567890-1234567"},
		Items:    []string{"Product"},
	}
	noID := &extract.FieldSet{Items: []string{"Product"}}
	noItems := &extract.FieldSet{OrderIDs: []string{"123-4567890-1234567"}}

	cases := []struct {
		name string
		fs   *extract.FieldSet
		conf float64
		mode constants.AIMode
		want bool
	}{
		{"always escalates even when complete", complete, 99, constants.AIModeAlways, true},
		{"never stays local even when empty", &extract.FieldSet{}, 0, constants.AIModeNever, false},
		{"hybrid low confidence", complete, 50, constants.AIModeHybrid, true},
		{"hybrid complete and confident", complete, 85, constants.AIModeHybrid, false},
		{"hybrid missing order id", noID, 85, constants.AIModeHybrid, true},
		{"hybrid missing items", noItems, 85, constants.AIModeHybrid, true},
		{"hybrid at threshold does not escalate", complete, 70, constants.AIModeHybrid, false},
	}
	for _, c := range cases {
		if got := ShouldUseAI(c.fs, c.conf, c.mode, 70); got != c.want {
			t.Fatalf("%s: got %t want %t", c.name, got, c.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	records := []ExtractionRecord{
		{Status: constants.StatusSuccess, OverallConfidence: 90, AIUsed: true,
			Fields: &extract.FieldSet{OrderIDs: []string{"111-1111111-1111111"}, Items: []string{"a", "b"}}},
		{Status: constants.StatusSuccess, OverallConfidence: 80,
			Fields: &extract.FieldSet{OrderIDs: []string{"111-1111111-1111111"}}},
		{Status: constants.StatusReviewRequired, OverallConfidence: 40,
			Fields: &extract.FieldSet{Items: []string{"c"}}},
		{Status: constants.StatusFailedLoad, OverallConfidence: 0, Fields: &extract.FieldSet{}},
	}
	s := Summarize(records, 2*time.Second)

	if s.Total != 4 || s.Success != 2 || s.ReviewRequired != 1 || s.FailedLoad != 1 {
		t.Fatalf("counts wrong: %+v", s)
	}
	if s.UniqueOrderIDs != 1 {
		t.Fatalf("unique order ids = %d, want 1", s.UniqueOrderIDs)
	}
	if s.TotalItems != 3 {
		t.Fatalf("total items = %d, want 3", s.TotalItems)
	}
	if s.AIUsed != 1 {
		t.Fatalf("ai used = %d, want 1", s.AIUsed)
	}
	if s.AvgConfidence != 52.5 {
		t.Fatalf("avg confidence = %v, want 52.5", s.AvgConfidence)
	}
	if s.Elapsed != 2 {
		t.Fatalf("elapsed = %v, want 2", s.Elapsed)
	}
}
