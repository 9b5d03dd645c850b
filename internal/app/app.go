package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/services/approval"
	"github.com/ternarybob/lustro/internal/services/detectors"
	"github.com/ternarybob/lustro/internal/services/embeddings"
	"github.com/ternarybob/lustro/internal/services/llm"
	"github.com/ternarybob/lustro/internal/services/pipeline"
	"github.com/ternarybob/lustro/internal/services/processor"
	"github.com/ternarybob/lustro/internal/services/scheduler"
	"github.com/ternarybob/lustro/internal/services/search"
	"github.com/ternarybob/lustro/internal/services/sources"
	"github.com/ternarybob/lustro/internal/services/summarizer"
	"github.com/ternarybob/lustro/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Providers
	LLMService interfaces.LLMService
	Embedder   interfaces.EmbeddingService
	Summarizer interfaces.SummarizerService

	// Document services
	ProcessorService interfaces.ProcessorService
	SearchService    interfaces.SearchService

	// Detection and review
	DuplicateDetector interfaces.DuplicateDetector
	PIIDetector       interfaces.PIIDetector
	QualityValidator  interfaces.QualityValidator
	ApprovalService   interfaces.ApprovalService

	// Orchestration
	FileSource       interfaces.FileSource
	Pipeline         *pipeline.Service
	SchedulerService *scheduler.Service
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	llmService, err := llm.NewLLMService(cfg, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	app.LLMService = llmService

	retry := llm.NewDefaultRetryConfig()
	retry.MaxRetries = cfg.LLM.MaxRetries

	app.Embedder = embeddings.NewService(llmService, retry, cfg.LLM.EmbedDimension, logger)
	app.Summarizer = summarizer.NewService(llmService, retry, logger)

	app.ProcessorService = processor.NewService(
		storageManager.ChunkStorage(),
		app.Embedder,
		app.Summarizer,
		cfg.Chunking.ChunkSize,
		cfg.Chunking.Overlap,
		logger,
	)

	app.ApprovalService = approval.NewService(storageManager.AuditStorage(), logger)

	app.DuplicateDetector = detectors.NewDuplicateDetector(
		storageManager.DocumentStorage(),
		app.Embedder,
		app.ApprovalService,
		cfg.Detection.DuplicateThreshold,
		cfg.Detection.NeighborLimit,
		logger,
	)
	app.PIIDetector = detectors.NewPIIDetector(app.ApprovalService, logger)
	app.QualityValidator = detectors.NewQualityValidator(app.ApprovalService, logger)

	app.SearchService = search.NewService(storageManager, app.Embedder, logger)

	source, err := sources.NewFileSource(ctx, cfg, logger)
	if err != nil {
		llmService.Close()
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize file source: %w", err)
	}
	app.FileSource = source

	app.Pipeline = pipeline.NewService(
		source,
		app.ProcessorService,
		app.DuplicateDetector,
		app.PIIDetector,
		app.QualityValidator,
		app.ApprovalService,
		cfg,
		logger,
	)

	app.SchedulerService = scheduler.NewService(app.Pipeline, logger)

	logger.Info().
		Str("provider", cfg.LLM.Provider).
		Str("source", source.Name()).
		Msg("Application initialized")

	return app, nil
}

// Close shuts down components in reverse dependency order.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM provider close failed")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
