package extract

import "testing"

func TestValidateOrderID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"123-4567890-1234567", true},
		{"123-4567890-123456", false},
		{"1234-567890-1234567", false},
		{"abc-4567890-1234567", false},
		{"x123-4567890-1234567", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidateOrderID(c.id); got != c.want {
			t.Fatalf("ValidateOrderID(%q) = %t, want %t", c.id, got, c.want)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	for _, ok := range []string{"$5", "$12.99", "$1,299.00"} {
		if !ValidatePrice(ok) {
			t.Fatalf("ValidatePrice(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"12.99", "$12.9", "$12,99", "total $5"} {
		if ValidatePrice(bad) {
			t.Fatalf("ValidatePrice(%q) = true, want false", bad)
		}
	}
}

func TestCalculateConfidenceComponents(t *testing.T) {
	empty := &FieldSet{}
	if got := CalculateConfidence(empty, 50); got != 20 {
		t.Fatalf("ocr-only confidence = %v, want 20", got)
	}

	full := &FieldSet{
		OrderIDs: []string{"123-4567890-1234567"},
		Items:    []string{"a", "b", "c", "d", "e", "f"},
		Totals:   []string{"$9.99"},
		Dates:    []string{"2024-01-05"},
	}
	// 0.4*100 + 25 + 20 (item bonus capped) + 10 + 5 = 100
	if got := CalculateConfidence(full, 100); got != 100 {
		t.Fatalf("full confidence = %v, want 100", got)
	}

	invalidID := &FieldSet{OrderIDs: []string{"not-an-id"}}
	if got := CalculateConfidence(invalidID, 0); got != 0 {
		t.Fatalf("invalid id should score no bonus, got %v", got)
	}
}

func TestCalculateConfidenceItemBonusCap(t *testing.T) {
	two := &FieldSet{Items: []string{"a", "b"}}
	if got := CalculateConfidence(two, 0); got != 10 {
		t.Fatalf("two items = %v, want 10", got)
	}
	ten := &FieldSet{Items: make([]string, 10)}
	if got := CalculateConfidence(ten, 0); got != 20 {
		t.Fatalf("ten items = %v, want capped 20", got)
	}
}

func TestValidateExtractionIssues(t *testing.T) {
	ok, issues := ValidateExtraction(&FieldSet{
		OrderIDs: []string{"123-4567890-1234567"},
		Items:    []string{"Product"},
		Prices:   []string{"$9.99"},
	})
	if !ok || len(issues) != 0 {
		t.Fatalf("clean extraction flagged: %v", issues)
	}

	ok, issues = ValidateExtraction(&FieldSet{})
	if ok {
		t.Fatal("empty extraction passed validation")
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want missing order id and missing items", issues)
	}
}
