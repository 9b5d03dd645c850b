package interfaces

import (
	"context"
)

// EmbeddingService generates vector embeddings with graceful degradation.
// After retries are exhausted it returns a zero vector of the configured
// dimension rather than an error, so downstream similarity math stays
// well-defined (a zero vector shows zero similarity to everything).
type EmbeddingService interface {
	// GenerateEmbedding returns the embedding for text, truncated to the
	// provider input bound. Never returns an error: degraded calls yield
	// a zero vector.
	GenerateEmbedding(ctx context.Context, text string) []float32

	// Dimension returns the fixed embedding length.
	Dimension() int

	// IsAvailable reports whether the underlying provider is reachable.
	IsAvailable(ctx context.Context) bool
}

// SummarizerService condenses chunk text with graceful degradation.
type SummarizerService interface {
	// Summarize returns a short summary of text. After retries are exhausted
	// it returns a deterministic truncation of the input instead of failing.
	Summarize(ctx context.Context, text string) string
}
