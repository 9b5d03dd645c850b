package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"golang.org/x/time/rate"
)

// ClaudeService implements the LLMService interface using Anthropic Claude
// for summaries. Claude has no embeddings endpoint, so embedding calls are
// delegated to an inner Gemini service.
type ClaudeService struct {
	config    *common.LLMConfig
	logger    arbor.ILogger
	client    anthropic.Client
	embedder  *GeminiService
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a new Claude LLM service instance. The Gemini
// service remains required for embeddings.
func NewClaudeService(config *common.Config, logger arbor.ILogger) (*ClaudeService, error) {
	if config.LLM.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for the Claude service (set ANTHROPIC_API_KEY, LUSTRO_ANTHROPIC_API_KEY, or llm.anthropic_api_key in config)")
	}

	embedder, err := NewGeminiService(config, logger)
	if err != nil {
		return nil, fmt.Errorf("Claude mode still requires a Gemini embedder: %w", err)
	}

	model := config.LLM.SummaryModel
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = "claude-sonnet-4-20250514"
	}

	rps := config.LLM.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	service := &ClaudeService{
		config:    &config.LLM,
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(config.LLM.AnthropicAPIKey)),
		embedder:  embedder,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		timeout:   config.LLMTimeout(),
		maxTokens: 1024,
	}
	service.config.SummaryModel = model

	logger.Info().
		Str("summary_model", model).
		Dur("timeout", service.timeout).
		Msg("Claude LLM service initialized")

	return service, nil
}

// Embed delegates to the inner Gemini embedder.
func (s *ClaudeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.Embed(ctx, text)
}

// Summarize condenses chunk text via the Claude messages API.
func (s *ClaudeService) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("text cannot be empty for summarization")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.SummaryModel),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(fmt.Sprintf(summaryPrompt, text)),
			),
		},
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no summary generated from Claude API")
	}

	summary := strings.TrimSpace(response.String())

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("summary_length", len(summary)).
		Dur("duration", time.Since(start)).
		Msg("Generated summary")

	return summary, nil
}

// HealthCheck probes both the Claude endpoint and the inner embedder.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.Summarize(probeCtx, "health check probe"); err != nil {
		return fmt.Errorf("Claude probe failed: %w", err)
	}

	return s.embedder.HealthCheck(ctx)
}

// GetMode returns the active provider mode.
func (s *ClaudeService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeClaude
}

// Close releases provider resources.
func (s *ClaudeService) Close() error {
	s.logger.Info().Msg("Closing Claude LLM service")
	return s.embedder.Close()
}
