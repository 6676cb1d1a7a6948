package pipeline

import (
	"strings"
	"testing"

	"snaporder/internal/extract"
)

func rec(name, orderID string, ocrConf float64) ExtractionRecord {
	fs := &extract.FieldSet{OrderIDs: []string{}}
	if orderID != "" {
		fs.OrderIDs = []string{orderID}
	}
	return ExtractionRecord{FileName: name, OCRConfidence: ocrConf, Fields: fs}
}

func TestConsolidateKeepsHighestConfidence(t *testing.T) {
	records := []ExtractionRecord{
		rec("a.png", "123-4567890-1234567", 60),
		rec("b.png", "123-4567890-1234567", 90),
		rec("c.png", "123-4567890-1234567", 75),
	}
	got := Consolidate(records)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	winner := got[0]
	if winner.OCRConfidence != 90 {
		t.Fatalf("kept confidence %v, want the 90 record", winner.OCRConfidence)
	}
	if !winner.IsDuplicate {
		t.Fatal("consolidated record not flagged as duplicate group")
	}
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if !strings.Contains(winner.FileName, name) {
			t.Fatalf("file name %q missing member %s", winner.FileName, name)
		}
	}
}

func TestConsolidateLeavesDistinctOrdersAlone(t *testing.T) {
	records := []ExtractionRecord{
		rec("a.png", "111-1111111-1111111", 50),
		rec("b.png", "222-2222222-2222222", 50),
		rec("noid.png", "", 50),
	}
	got := Consolidate(records)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, r := range got {
		if r.IsDuplicate {
			t.Fatalf("record %d wrongly flagged duplicate", i)
		}
		if r.FileName != records[i].FileName {
			t.Fatalf("order changed: got %s at %d", r.FileName, i)
		}
	}
}

func TestConsolidateGroupsByFirstOrderIDOnly(t *testing.T) {
	a := rec("a.png", "111-1111111-1111111", 80)
	a.Fields.OrderIDs = append(a.Fields.OrderIDs, "333-3333333-3333333")
	b := rec("b.png", "333-3333333-3333333", 99)

	got := Consolidate([]ExtractionRecord{a, b})
	// different first ids, no grouping even though a secondary id matches
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}
