package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based on
// the configured provider.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", cfg.LLM.Provider).Msg("Initializing LLM service")

	switch cfg.LLM.Provider {
	case "gemini":
		return NewGeminiService(cfg, logger)
	case "claude":
		return NewClaudeService(cfg, logger)
	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'gemini' or 'claude'", cfg.LLM.Provider)
	}
}
