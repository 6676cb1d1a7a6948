package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// FieldSet holds every field category the extractor produces. All slices are
// always present, empty when nothing matched, so downstream merge logic never
// has to nil-check a category.
type FieldSet struct {
	OrderIDs        []string `json:"order_ids"`
	Prices          []string `json:"prices"`
	Dates           []string `json:"dates"`
	Totals          []string `json:"totals"`
	Quantities      []string `json:"quantities"`
	Sellers         []string `json:"sellers"`
	TrackingNumbers []string `json:"tracking_numbers"`
	Items           []string `json:"items"`
}

var (
	ReOrderID  = regexp.MustCompile(`\d{3}-\d{7}-\d{7}`)
	rePrice    = regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)
	reDate     = regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`)
	reTotal    = regexp.MustCompile(`(?i)(?:Order Total|Grand Total|Total|Subtotal)[\s:]*(\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
	reQuantity = regexp.MustCompile(`(?i)(?:Qty|Quantity)[.:]?\s*(\d+)`)
	reSeller   = regexp.MustCompile(`Sold by[:\s]*(.+?)(?:\n|$)`)
	reTracking = regexp.MustCompile(`(?i)(?:Tracking|Track)[:\s]*([A-Z0-9]{10,})`)
	reItemID   = regexp.MustCompile(`\d{3}-\d{7}.*`)
)

// itemStopWords mark lines that are order chrome rather than product names.
var itemStopWords = []string{
	"total", "shipping", "tax", "qty", "quantity", "sold by", "order",
	"delivery", "arrives", "return", "refund", "customer", "account",
	"payment", "credit", "gift",
}

// ExtractAll runs every field pattern over the recognized text. Prices and
// quantities keep duplicates in text order: two items at the same price must
// yield two entries, or prices desynchronize from items.
func ExtractAll(text string) *FieldSet {
	prices := rePrice.FindAllString(text, -1)
	if prices == nil {
		prices = []string{}
	}
	return &FieldSet{
		OrderIDs:        dedupe(ReOrderID.FindAllString(text, -1)),
		Prices:          prices,
		Dates:           extractDates(text),
		Totals:          dedupe(captureGroups(reTotal, text)),
		Quantities:      captureGroups(reQuantity, text),
		Sellers:         extractSellers(text),
		TrackingNumbers: dedupe(captureGroups(reTracking, text)),
		Items:           extractItems(text),
	}
}

func captureGroups(re *regexp.Regexp, text string) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// extractDates normalizes matched dates to ISO form. A date that matches the
// pattern but fails to parse is kept verbatim rather than dropped.
func extractDates(text string) []string {
	out := []string{}
	for _, m := range reDate.FindAllString(text, -1) {
		cleaned := strings.ReplaceAll(m, ",", "")
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		parsed := m
		for _, layout := range []string{"Jan 2 2006", "January 2 2006"} {
			if t, err := time.Parse(layout, cleaned); err == nil {
				parsed = t.Format("2006-01-02")
				break
			}
		}
		out = append(out, parsed)
	}
	return dedupe(out)
}

func extractSellers(text string) []string {
	out := []string{}
	for _, m := range reSeller.FindAllStringSubmatch(text, -1) {
		seller := strings.TrimSpace(m[1])
		if len(seller) > 2 {
			out = append(out, seller)
		}
	}
	return dedupe(out)
}

// extractItems is a line heuristic: strip prices and order-ID fragments, then
// keep lines that look like product names. Long, starting with an uppercase
// letter, and free of order chrome keywords.
func extractItems(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		cleaned := rePrice.ReplaceAllString(line, "")
		cleaned = reItemID.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		if len(cleaned) < 15 {
			continue
		}
		runes := []rune(cleaned)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		if containsStopWord(cleaned) {
			continue
		}
		out = append(out, cleaned)
	}
	return dedupe(out)
}

func containsStopWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range itemStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// dedupe removes duplicates preserving first-seen order and never returns nil.
func dedupe(in []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
