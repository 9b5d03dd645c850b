package summarizer

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/services/llm"
)

const (
	// SummarizeInputLimit bounds the text sent to the summary model.
	SummarizeInputLimit = 2000

	// FallbackExcerptLength is the deterministic truncation used when the
	// provider fails after retries.
	FallbackExcerptLength = 200
)

// Service implements SummarizerService with bounded retries and a truncated
// excerpt as the degraded output. A document is never dropped because its
// summary could not be generated.
type Service struct {
	llmService interfaces.LLMService
	retry      *llm.RetryConfig
	logger     arbor.ILogger
}

// NewService creates a new summarizer service
func NewService(llmService interfaces.LLMService, retry *llm.RetryConfig, logger arbor.ILogger) interfaces.SummarizerService {
	if retry == nil {
		retry = llm.NewDefaultRetryConfig()
	}
	return &Service{
		llmService: llmService,
		retry:      retry,
		logger:     logger,
	}
}

// Summarize condenses chunk text. The provider is retried with backoff; once
// attempts are exhausted the first FallbackExcerptLength characters of the
// input are returned as a degraded summary.
func (s *Service) Summarize(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}

	input := text
	if len(input) > SummarizeInputLimit {
		input = input[:SummarizeInputLimit]
	}

	if s.llmService == nil {
		return excerpt(text)
	}

	var summary string
	err := s.retry.Do(ctx, func() error {
		var sumErr error
		summary, sumErr = s.llmService.Summarize(ctx, input)
		return sumErr
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("text_length", len(text)).
			Msg("Summarization degraded to excerpt after retries")
		return excerpt(text)
	}

	return summary
}

func excerpt(text string) string {
	if len(text) > FallbackExcerptLength {
		return text[:FallbackExcerptLength]
	}
	return text
}
