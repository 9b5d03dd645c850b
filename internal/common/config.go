package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"omitempty,oneof=development production"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	LLM         LLMConfig       `toml:"llm"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Detection   DetectionConfig `toml:"detection"`
	Pipeline    PipelineConfig  `toml:"pipeline"`
	Source      SourceConfig    `toml:"source"`
	Schedule    ScheduleConfig  `toml:"schedule"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// LLMConfig configures the embedding and summarization providers.
type LLMConfig struct {
	Provider          string  `toml:"provider" validate:"oneof=gemini claude"` // summary provider; embeddings always use Gemini
	GoogleAPIKey      string  `toml:"google_api_key"`
	AnthropicAPIKey   string  `toml:"anthropic_api_key"`
	EmbedModel        string  `toml:"embed_model"`
	SummaryModel      string  `toml:"summary_model"`
	EmbedDimension    int     `toml:"embed_dimension" validate:"gt=0"`
	Timeout           string  `toml:"timeout"`             // per-call timeout, e.g. "30s"
	MaxRetries        int     `toml:"max_retries"`         // bounded retry count before degradation
	RequestsPerSecond float64 `toml:"requests_per_second"` // provider rate limit
}

// ChunkingConfig controls the sliding-window chunker.
type ChunkingConfig struct {
	ChunkSize          int `toml:"chunk_size" validate:"gt=0"`
	Overlap            int `toml:"overlap" validate:"gte=0"`
	LargeFileThreshold int `toml:"large_file_threshold"` // chars; smaller documents skip chunking
}

// DetectionConfig controls the duplicate detector.
type DetectionConfig struct {
	DuplicateThreshold float64 `toml:"duplicate_threshold" validate:"gt=0,lte=1"`
	NeighborLimit      int     `toml:"neighbor_limit" validate:"gt=0"`
}

// PipelineConfig controls batch orchestration.
type PipelineConfig struct {
	MaxFiles    int `toml:"max_files" validate:"gt=0"`
	Concurrency int `toml:"concurrency" validate:"gte=1"` // 1 = sequential (default)
}

// SourceConfig selects and configures the file source.
type SourceConfig struct {
	Type   string             `toml:"type" validate:"oneof=drive github local"`
	Drive  DriveSourceConfig  `toml:"drive"`
	GitHub GitHubSourceConfig `toml:"github"`
	Local  LocalSourceConfig  `toml:"local"`
}

type DriveSourceConfig struct {
	CredentialsFile string `toml:"credentials_file"` // OAuth client secrets JSON
	TokenFile       string `toml:"token_file"`       // cached OAuth token
}

type GitHubSourceConfig struct {
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
	Ref   string `toml:"ref"`
	Token string `toml:"token"`
}

type LocalSourceConfig struct {
	Dir string `toml:"dir"`
}

// ScheduleConfig enables periodic batch runs.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // cron expression with seconds field
}

// DefaultConfig returns the baseline configuration before file and
// environment overrides are applied.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/lustro",
			},
		},
		LLM: LLMConfig{
			Provider:          "gemini",
			EmbedModel:        "gemini-embedding-001",
			SummaryModel:      "gemini-2.0-flash",
			EmbedDimension:    768,
			Timeout:           "30s",
			MaxRetries:        3,
			RequestsPerSecond: 5,
		},
		Chunking: ChunkingConfig{
			ChunkSize:          1000,
			Overlap:            200,
			LargeFileThreshold: 5000,
		},
		Detection: DetectionConfig{
			DuplicateThreshold: 0.85,
			NeighborLimit:      5,
		},
		Pipeline: PipelineConfig{
			MaxFiles:    20,
			Concurrency: 1,
		},
		Source: SourceConfig{
			Type: "local",
			Drive: DriveSourceConfig{
				CredentialsFile: "credentials.json",
				TokenFile:       "token.json",
			},
			GitHub: GitHubSourceConfig{
				Ref: "main",
			},
			Local: LocalSourceConfig{
				Dir: "./documents",
			},
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 0 */6 * * *",
		},
	}
}

// LoadConfig loads configuration in priority order:
// defaults -> TOML file (if present) -> LUSTRO_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints plus the cross-field invariants the
// chunker depends on.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// validator can't express overlap < chunk_size
	if c.Chunking.Overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("invalid configuration: chunking.overlap (%d) must be less than chunking.chunk_size (%d)",
			c.Chunking.Overlap, c.Chunking.ChunkSize)
	}

	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid configuration: llm.timeout %q: %w", c.LLM.Timeout, err)
	}

	return nil
}

// LLMTimeout returns the parsed per-call provider timeout.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// applyEnvOverrides applies LUSTRO_* environment variables over the loaded
// configuration. Only operationally sensitive values are exposed this way.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("LUSTRO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("LUSTRO_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("LUSTRO_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("LUSTRO_GOOGLE_API_KEY"); v != "" {
		config.LLM.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" && config.LLM.GoogleAPIKey == "" {
		config.LLM.GoogleAPIKey = v
	}
	if v := os.Getenv("LUSTRO_ANTHROPIC_API_KEY"); v != "" {
		config.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.LLM.AnthropicAPIKey == "" {
		config.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("LUSTRO_GITHUB_TOKEN"); v != "" {
		config.Source.GitHub.Token = v
	}
	if v := os.Getenv("LUSTRO_SOURCE_TYPE"); v != "" {
		config.Source.Type = v
	}
	if v := os.Getenv("LUSTRO_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Pipeline.MaxFiles = n
		}
	}
	if v := os.Getenv("LUSTRO_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			config.Pipeline.Concurrency = n
		}
	}
	if v := os.Getenv("LUSTRO_LOG_OUTPUT"); v != "" {
		config.Logging.Output = strings.Split(v, ",")
	}
}
