package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"snaporder/internal/common"
)

// newOllama builds the local-model adapter. No API key: talks to an ollama
// daemon, by default on localhost.
func newOllama(cfg common.AIConfig, logger *slog.Logger) FieldExtractor {
	host := strings.TrimRight(cfg.OllamaHost, "/")
	if host == "" {
		host = "http://localhost:11434"
	}
	model := cfg.OllamaModel

	// local models are slow on vision, allow them extra room
	timeout := cfg.Timeout
	if timeout < 2*time.Minute {
		timeout = 2 * time.Minute
	}
	c := newClient("Ollama", "", cfg.MaxRetries, timeout, logger)
	c.call = func(ctx context.Context, prompt, imageB64, _ string) (string, error) {
		body := map[string]any{
			"model":  model,
			"prompt": prompt,
			"images": []string{imageB64},
			"stream": false,
			"format": "json",
			"options": map[string]any{
				"temperature": 0.1,
			},
		}
		raw, err := SendJSON(ctx, c.http, host+"/api/generate", body, nil, c.logger)
		if err != nil {
			return "", err
		}
		var resp struct {
			Response string `json:"response"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode ollama response: %w", err)
		}
		return resp.Response, nil
	}
	return c
}
