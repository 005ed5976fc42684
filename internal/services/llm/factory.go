package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
)

// NewVisionService creates the appropriate vision service implementation based
// on configuration.
func NewVisionService(cfg *common.Config, logger arbor.ILogger) (interfaces.VisionService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.VisionProviderOpenAI
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing vision service")

	switch provider {
	case common.VisionProviderOpenAI:
		return NewOpenAIService(&cfg.OpenAI, logger)

	case common.VisionProviderGemini:
		return NewGeminiService(&cfg.Gemini, logger)

	case common.VisionProviderClaude:
		return NewClaudeService(&cfg.Claude, logger)

	default:
		return nil, fmt.Errorf("unsupported vision provider '%s': must be 'openai', 'gemini' or 'claude'", provider)
	}
}
