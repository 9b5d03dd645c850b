package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// summaryPrompt asks for a search-oriented condensation of a chunk.
// Embeddings are computed over this summary rather than the raw chunk text,
// so the prompt steers toward entities, dates and numbers.
const summaryPrompt = `Summarize this document chunk in 2-3 sentences.
Focus on key entities, dates, numbers, and important information:

%s`

// GeminiService implements the LLMService interface using Google Gemini.
// It provides both embeddings and chunk summaries.
type GeminiService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiService creates a new Gemini LLM service instance.
func NewGeminiService(config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	if config.LLM.GoogleAPIKey == "" {
		return nil, fmt.Errorf("Google API key is required for the Gemini service (set GOOGLE_API_KEY, LUSTRO_GOOGLE_API_KEY, or llm.google_api_key in config)")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.LLM.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	rps := config.LLM.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	service := &GeminiService{
		config:  &config.LLM,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: config.LLMTimeout(),
	}

	logger.Info().
		Str("embed_model", config.LLM.EmbedModel).
		Str("summary_model", config.LLM.SummaryModel).
		Int("embed_dimension", config.LLM.EmbedDimension).
		Dur("timeout", service.timeout).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// Embed generates an embedding vector of the configured dimension.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	outputDim := int32(s.config.EmbedDimension)
	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbedModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{OutputDimensionality: &outputDim})
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned from API")
	}
	if len(embedding) != s.config.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbedDimension, len(embedding))
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// Summarize condenses chunk text via the configured summary model.
func (s *GeminiService) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("text cannot be empty for summarization")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(summaryPrompt, text), genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.SummaryModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no summary generated from model")
	}

	summary := strings.TrimSpace(response.String())

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("summary_length", len(summary)).
		Dur("duration", time.Since(start)).
		Msg("Generated summary")

	return summary, nil
}

// HealthCheck exercises the embedding model with a lightweight probe.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	embedding, err := s.Embed(probeCtx, "health check probe")
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("embedding probe returned empty vector")
	}
	return nil
}

// GetMode returns the active provider mode.
func (s *GeminiService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeGemini
}

// Close releases provider resources. The genai client doesn't require
// explicit cleanup beyond clearing the reference.
func (s *GeminiService) Close() error {
	s.logger.Info().Msg("Closing Gemini LLM service")
	s.client = nil
	return nil
}
