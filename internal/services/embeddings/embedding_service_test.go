package embeddings

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/services/llm"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func fastRetry() *llm.RetryConfig {
	return &llm.RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

// fakeLLM scripts Embed behavior; failUntil makes the first n calls fail.
type fakeLLM struct {
	calls     int
	failUntil int
	lastInput string
	healthErr error
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastInput = text
	if f.calls <= f.failUntil {
		return nil, fmt.Errorf("provider unavailable")
	}
	return []float32{0.1, 0.2, 0.3, 0.4}, nil
}

func (f *fakeLLM) Summarize(ctx context.Context, text string) (string, error) {
	return "", fmt.Errorf("not under test")
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return f.healthErr }

func (f *fakeLLM) GetMode() interfaces.LLMMode { return interfaces.LLMModeGemini }

func (f *fakeLLM) Close() error { return nil }

func TestGenerateEmbedding_Success(t *testing.T) {
	provider := &fakeLLM{}
	svc := NewService(provider, fastRetry(), 4, createTestLogger())

	vec := svc.GenerateEmbedding(context.Background(), "some document text")
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateEmbedding_RetriesThenSucceeds(t *testing.T) {
	provider := &fakeLLM{failUntil: 2}
	svc := NewService(provider, fastRetry(), 4, createTestLogger())

	vec := svc.GenerateEmbedding(context.Background(), "text")
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateEmbedding_DegradesToZeroVector(t *testing.T) {
	provider := &fakeLLM{failUntil: 100}
	svc := NewService(provider, fastRetry(), 768, createTestLogger())

	vec := svc.GenerateEmbedding(context.Background(), "text")

	// Never errors: degraded output is a zero vector of the configured dimension
	assert.Len(t, vec, 768)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestGenerateEmbedding_TruncatesLongInput(t *testing.T) {
	provider := &fakeLLM{}
	svc := NewService(provider, fastRetry(), 4, createTestLogger())

	svc.GenerateEmbedding(context.Background(), strings.Repeat("x", EmbedInputLimit+1000))
	assert.Len(t, provider.lastInput, EmbedInputLimit)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	provider := &fakeLLM{}
	svc := NewService(provider, fastRetry(), 4, createTestLogger())

	vec := svc.GenerateEmbedding(context.Background(), "")
	assert.Equal(t, make([]float32, 4), vec)
	assert.Zero(t, provider.calls)
}

func TestGenerateEmbedding_NilProvider(t *testing.T) {
	svc := NewService(nil, fastRetry(), 4, createTestLogger())

	vec := svc.GenerateEmbedding(context.Background(), "text")
	assert.Equal(t, make([]float32, 4), vec)
}

func TestDimension(t *testing.T) {
	svc := NewService(&fakeLLM{}, fastRetry(), 768, createTestLogger())
	assert.Equal(t, 768, svc.Dimension())
}

func TestIsAvailable(t *testing.T) {
	assert.True(t, NewService(&fakeLLM{}, fastRetry(), 4, createTestLogger()).IsAvailable(context.Background()))
	assert.False(t, NewService(&fakeLLM{healthErr: fmt.Errorf("401")}, fastRetry(), 4, createTestLogger()).IsAvailable(context.Background()))
	assert.False(t, NewService(nil, fastRetry(), 4, createTestLogger()).IsAvailable(context.Background()))
}
