package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"snaporder/internal/extract"
)

var reJSONBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ParseModelJSON decodes a model answer into a generic map. Models wrap JSON
// in markdown code fences or chat filler more often than not, so fences are
// stripped first and a brace-to-brace scan is the fallback.
func ParseModelJSON(content string) (map[string]any, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err == nil {
		return m, nil
	}
	if block := reJSONBlock.FindString(s); block != "" {
		if err := json.Unmarshal([]byte(block), &m); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no JSON object in model output (%d bytes)", len(content))
}

// NormalizeFields maps the model's single-value answer shape onto the
// list-valued FieldSet the rest of the pipeline speaks.
func NormalizeFields(m map[string]any) *extract.FieldSet {
	fs := &extract.FieldSet{
		OrderIDs:        []string{},
		Prices:          []string{},
		Dates:           []string{},
		Totals:          []string{},
		Quantities:      []string{},
		Sellers:         []string{},
		TrackingNumbers: []string{},
		Items:           []string{},
	}
	if v := asString(m["order_id"]); v != "" {
		fs.OrderIDs = append(fs.OrderIDs, v)
	}
	if v := asString(m["order_date"]); v != "" {
		fs.Dates = append(fs.Dates, v)
	}
	if v := asString(m["total"]); v != "" {
		fs.Totals = append(fs.Totals, v)
		fs.Prices = append(fs.Prices, v)
	}
	if v := asString(m["seller"]); v != "" {
		fs.Sellers = append(fs.Sellers, v)
	}
	if v := asString(m["tracking_number"]); v != "" {
		fs.TrackingNumbers = append(fs.TrackingNumbers, v)
	}

	if items, ok := m["items"].([]any); ok {
		for _, it := range items {
			obj, ok := it.(map[string]any)
			if !ok {
				// some models return bare name strings
				if s := asString(it); s != "" {
					fs.Items = append(fs.Items, s)
				}
				continue
			}
			if name := asString(obj["name"]); name != "" {
				fs.Items = append(fs.Items, name)
			}
			if q := asString(obj["quantity"]); q != "" {
				fs.Quantities = append(fs.Quantities, q)
			}
			if p := asString(obj["price"]); p != "" {
				fs.Prices = append(fs.Prices, p)
			}
		}
	}
	if prices, ok := m["other_prices"].([]any); ok {
		for _, p := range prices {
			if s := asString(p); s != "" {
				fs.Prices = append(fs.Prices, s)
			}
		}
	}
	return fs
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}
