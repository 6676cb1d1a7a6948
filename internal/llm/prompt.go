package llm

import (
	"encoding/json"
	"strings"
)

// BuildPrompt composes the instruction sent with every screenshot. The OCR
// text, when available, is included as a hint since vision models read small
// fonts poorly.
func BuildPrompt(ocrText string) string {
	parts := []string{
		"You are an order screenshot parser. Analyze this online order screenshot and return ONLY JSON matching the provided schema.",
		"Order IDs have the form XXX-XXXXXXX-XXXXXXX (3 digits, 7 digits, 7 digits separated by dashes).",
		"Use ISO-8601 dates (YYYY-MM-DD). Prices keep their dollar sign, e.g. \"$12.99\".",
		"If a field is not visible in the screenshot, omit it. Never output null. Never invent values.",
		"JSON Schema:\n" + mustJSON(BuildOrderJSONSchema()),
	}
	if ocr := strings.TrimSpace(ocrText); ocr != "" {
		if len(ocr) > 3000 {
			ocr = ocr[:3000]
		}
		parts = append(parts, "Locally recognized text (may contain errors, use only as a hint):\n"+ocr)
	}
	return strings.Join(parts, "\n\n")
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
