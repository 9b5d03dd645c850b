package embeddings

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/services/llm"
)

// EmbedInputLimit bounds provider cost and latency; input beyond it is
// truncated before the call.
const EmbedInputLimit = 8000

// Service implements EmbeddingService with bounded retries and a zero-vector
// fallback. Degradation is deliberate: a zero vector shows zero cosine
// similarity to every stored record, so a failed provider can only suppress
// duplicate findings, never invent them.
type Service struct {
	llmService interfaces.LLMService
	retry      *llm.RetryConfig
	dimension  int
	logger     arbor.ILogger
}

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, retry *llm.RetryConfig, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	if retry == nil {
		retry = llm.NewDefaultRetryConfig()
	}
	return &Service{
		llmService: llmService,
		retry:      retry,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text. The provider is
// retried with backoff; once attempts are exhausted a zero vector of the
// configured dimension is returned instead of an error.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) []float32 {
	if len(text) > EmbedInputLimit {
		text = text[:EmbedInputLimit]
	}

	if text == "" || s.llmService == nil {
		return make([]float32, s.dimension)
	}

	var embedding []float32
	err := s.retry.Do(ctx, func() error {
		var embedErr error
		embedding, embedErr = s.llmService.Embed(ctx, text)
		return embedErr
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("text_length", len(text)).
			Int("dimension", s.dimension).
			Msg("Embedding degraded to zero vector after retries")
		return make([]float32, s.dimension)
	}

	return embedding
}

// Dimension returns the fixed embedding length.
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks if the embedding provider is reachable.
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.llmService == nil {
		return false
	}
	if err := s.llmService.HealthCheck(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("LLM service not available")
		return false
	}
	return true
}
