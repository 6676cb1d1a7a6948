package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"snaporder/internal/common"
)

const (
	claudeBaseURL    = "https://api.anthropic.com/v1"
	claudeAPIVersion = "2023-06-01"
)

func newClaude(cfg common.AIConfig, logger *slog.Logger) FieldExtractor {
	model := cfg.ClaudeModel
	key := cfg.ClaudeKey

	c := newClient("Claude", "ANTHROPIC_API_KEY", cfg.MaxRetries, cfg.Timeout, logger)
	c.call = func(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
		body := map[string]any{
			"model":      model,
			"max_tokens": 1500,
			"messages": []map[string]any{
				{
					"role": "user",
					"content": []map[string]any{
						{"type": "image", "source": map[string]any{
							"type":       "base64",
							"media_type": mimeType,
							"data":       imageB64,
						}},
						{"type": "text", "text": prompt},
					},
				},
			},
		}
		headers := map[string]string{
			"x-api-key":         key,
			"anthropic-version": claudeAPIVersion,
		}
		raw, err := SendJSON(ctx, c.http, claudeBaseURL+"/messages", body, headers, c.logger)
		if err != nil {
			return "", err
		}
		var resp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode claude response: %w", err)
		}
		if len(resp.Content) == 0 {
			return "", fmt.Errorf("no content in claude response")
		}
		return resp.Content[0].Text, nil
	}
	return c
}
