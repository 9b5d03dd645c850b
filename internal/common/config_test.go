package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 768, cfg.LLM.EmbedDimension)
	assert.Equal(t, 1000, cfg.Chunking.ChunkSize)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
	assert.Equal(t, 5000, cfg.Chunking.LargeFileThreshold)
	assert.Equal(t, 0.85, cfg.Detection.DuplicateThreshold)
	assert.Equal(t, 5, cfg.Detection.NeighborLimit)
	assert.Equal(t, 20, cfg.Pipeline.MaxFiles)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/lustro.toml")
	require.Error(t, err)
}

func TestLoadConfig_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lustro.toml")
	content := `
environment = "production"

[chunking]
chunk_size = 2000
overlap = 400

[detection]
duplicate_threshold = 0.9

[source]
type = "github"

[source.github]
owner = "ternarybob"
repo = "lustro"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 2000, cfg.Chunking.ChunkSize)
	assert.Equal(t, 400, cfg.Chunking.Overlap)
	assert.Equal(t, 0.9, cfg.Detection.DuplicateThreshold)
	assert.Equal(t, "github", cfg.Source.Type)
	assert.Equal(t, "ternarybob", cfg.Source.GitHub.Owner)

	// Untouched sections keep their defaults
	assert.Equal(t, 20, cfg.Pipeline.MaxFiles)
}

func TestValidate_OverlapMustBeLessThanChunkSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.Overlap = cfg.Chunking.ChunkSize

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "openai"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "soon"
	assert.Error(t, cfg.Validate())
}

func TestLLMTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "45s"
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LUSTRO_LLM_PROVIDER", "claude")
	t.Setenv("LUSTRO_MAX_FILES", "7")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, 7, cfg.Pipeline.MaxFiles)
	assert.Equal(t, "sk-test", cfg.LLM.AnthropicAPIKey)
}

func TestEnvOverrides_PrefixedKeyWins(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "plain")
	t.Setenv("LUSTRO_GOOGLE_API_KEY", "prefixed")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.GoogleAPIKey)
}
