package interfaces

import (
	"context"
)

// LLMMode indicates which provider backs the LLM service.
type LLMMode string

const (
	// LLMModeGemini indicates Google Gemini backs both embeddings and summaries.
	LLMModeGemini LLMMode = "gemini"
	// LLMModeClaude indicates Anthropic Claude backs summaries
	// (embeddings always come from Gemini).
	LLMModeClaude LLMMode = "claude"
)

// LLMService defines the raw provider operations the pipeline depends on.
// Implementations are expected to enforce per-call timeouts; they are NOT
// expected to degrade gracefully - the embedding and summarizer services
// layered above own the fallback behavior.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	// Input beyond the provider's bound is truncated by the caller.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Summarize condenses text into a short summary focused on key entities,
	// dates, and numbers.
	Summarize(ctx context.Context, text string) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated.
	HealthCheck(ctx context.Context) error

	// GetMode returns the active provider mode.
	GetMode() LLMMode

	// Close releases provider resources.
	Close() error
}
