package extract

import "regexp"

var (
	reOrderIDExact = regexp.MustCompile(`^\d{3}-\d{7}-\d{7}$`)
	rePriceExact   = regexp.MustCompile(`^\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?$`)
)

// ValidateOrderID reports whether s is a well-formed 3-7-7 order ID with
// nothing else around it.
func ValidateOrderID(s string) bool {
	return reOrderIDExact.MatchString(s)
}

// ValidatePrice reports whether s is a well-formed dollar amount.
func ValidatePrice(s string) bool {
	return rePriceExact.MatchString(s)
}

// CalculateConfidence scores an extraction 0..100. OCR quality contributes
// 40%, the rest comes from which field categories were actually found. A
// valid order ID is weighted heaviest since it is the key downstream field.
func CalculateConfidence(fs *FieldSet, ocrConfidence float64) float64 {
	score := 0.4 * ocrConfidence
	if len(fs.OrderIDs) > 0 && ValidateOrderID(fs.OrderIDs[0]) {
		score += 25
	}
	if n := len(fs.Items); n > 0 {
		bonus := float64(n) * 5
		if bonus > 20 {
			bonus = 20
		}
		score += bonus
	}
	if len(fs.Totals) > 0 {
		score += 10
	}
	if len(fs.Dates) > 0 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ValidateExtraction checks a field set for completeness and format problems.
// Returns ok plus a human-readable issue list for the record.
func ValidateExtraction(fs *FieldSet) (bool, []string) {
	issues := []string{}
	if len(fs.OrderIDs) == 0 {
		issues = append(issues, "No order ID found")
	} else {
		for _, id := range fs.OrderIDs {
			if !ValidateOrderID(id) {
				issues = append(issues, "Invalid order ID format: "+id)
			}
		}
	}
	if len(fs.Items) == 0 {
		issues = append(issues, "No items found")
	}
	for _, p := range fs.Prices {
		if !ValidatePrice(p) {
			issues = append(issues, "Invalid price format: "+p)
		}
	}
	return len(issues) == 0, issues
}
