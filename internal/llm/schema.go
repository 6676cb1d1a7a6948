package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildOrderJSONSchema returns the JSON-Schema the vision models are asked to
// fill. Nothing is required: a partial answer is still useful, so the schema
// only constrains types of the keys the model does return.
func BuildOrderJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": []any{"integer", "string"}},
			"price":    map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"order_id":         map[string]any{"type": "string"},
			"order_date":       map[string]any{"type": "string"},
			"total":            map[string]any{"type": "string"},
			"items":            map[string]any{"type": "array", "items": item},
			"seller":           map[string]any{"type": "string"},
			"tracking_number":  map[string]any{"type": "string"},
			"other_prices":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"shipping_address": map[string]any{"type": "string"},
		},
	}
}

// ValidateJSONAgainstSchema validates data against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
