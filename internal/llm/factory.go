package llm

import (
	"fmt"
	"log/slog"

	"snaporder/constants"
	"snaporder/internal/common"
)

// NewExtractor builds the configured vendor adapter. Cloud providers fail
// here when their API key is missing so startup validation can report the
// problem before any image is processed.
func NewExtractor(cfg common.AIConfig, logger *slog.Logger) (FieldExtractor, error) {
	switch cfg.Provider {
	case constants.ProviderOllama:
		return newOllama(cfg, logger), nil
	case constants.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: openai provider requires OPENAI_API_KEY", common.ErrStartup)
		}
		return newOpenAI(cfg, logger), nil
	case constants.ProviderClaude:
		if cfg.ClaudeKey == "" {
			return nil, fmt.Errorf("%w: claude provider requires ANTHROPIC_API_KEY", common.ErrStartup)
		}
		return newClaude(cfg, logger), nil
	case constants.ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("%w: gemini provider requires GOOGLE_API_KEY", common.ErrStartup)
		}
		return newGemini(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown AI provider %q", common.ErrStartup, cfg.Provider)
	}
}
