package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"snaporder/internal/common"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func newGemini(cfg common.AIConfig, logger *slog.Logger) FieldExtractor {
	model := cfg.GeminiModel
	key := cfg.GeminiKey

	c := newClient("Gemini", "GOOGLE_API_KEY", cfg.MaxRetries, cfg.Timeout, logger)
	c.call = func(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
		body := map[string]any{
			"contents": []map[string]any{
				{
					"parts": []map[string]any{
						{"text": prompt},
						{"inline_data": map[string]any{
							"mime_type": mimeType,
							"data":      imageB64,
						}},
					},
				},
			},
			"generationConfig": map[string]any{
				"temperature": 0.1,
			},
		}
		url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, model, key)
		raw, err := SendJSON(ctx, c.http, url, body, nil, c.logger)
		if err != nil {
			return "", err
		}
		var resp struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode gemini response: %w", err)
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no candidates in gemini response")
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return c
}
