package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"snaporder/internal/common"
)

const openAIBaseURL = "https://api.openai.com/v1"

func newOpenAI(cfg common.AIConfig, logger *slog.Logger) FieldExtractor {
	model := cfg.OpenAIModel
	key := cfg.OpenAIKey

	c := newClient("OpenAI", "OPENAI_API_KEY", cfg.MaxRetries, cfg.Timeout, logger)
	c.call = func(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
		body := map[string]any{
			"model":       model,
			"temperature": 0.1,
			"max_tokens":  1500,
			"messages": []map[string]any{
				{
					"role": "user",
					"content": []map[string]any{
						{"type": "text", "text": prompt},
						{"type": "image_url", "image_url": map[string]any{
							"url": "data:" + mimeType + ";base64," + imageB64,
						}},
					},
				},
			},
		}
		headers := map[string]string{"Authorization": "Bearer " + key}
		raw, err := SendJSON(ctx, c.http, openAIBaseURL+"/chat/completions", body, headers, c.logger)
		if err != nil {
			return "", err
		}
		var resp struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode openai response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in openai response")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return c
}
