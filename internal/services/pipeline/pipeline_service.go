package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// Service orchestrates a batch review run: list files from the source, fetch
// each one, chunk large documents through the processor, and run every
// document through the duplicate, PII and quality detectors. Detector issues
// land on the approval queue; the batch report carries a snapshot of it.
type Service struct {
	source    interfaces.FileSource
	processor interfaces.ProcessorService
	dupes     interfaces.DuplicateDetector
	pii       interfaces.PIIDetector
	quality   interfaces.QualityValidator
	approvals interfaces.ApprovalService

	maxFiles           int
	largeFileThreshold int
	concurrency        int

	logger arbor.ILogger
}

// NewService creates the batch orchestrator.
func NewService(
	source interfaces.FileSource,
	processor interfaces.ProcessorService,
	dupes interfaces.DuplicateDetector,
	pii interfaces.PIIDetector,
	quality interfaces.QualityValidator,
	approvals interfaces.ApprovalService,
	cfg *common.Config,
	logger arbor.ILogger,
) *Service {
	concurrency := cfg.Pipeline.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		source:             source,
		processor:          processor,
		dupes:              dupes,
		pii:                pii,
		quality:            quality,
		approvals:          approvals,
		maxFiles:           cfg.Pipeline.MaxFiles,
		largeFileThreshold: cfg.Chunking.LargeFileThreshold,
		concurrency:        concurrency,
		logger:             logger,
	}
}

// ProcessAll runs one full batch. A fetch failure skips that file with a
// warning; detector issues never abort the run. Cancelling the context stops
// new work but lets in-flight documents finish.
func (s *Service) ProcessAll(ctx context.Context) (*models.BatchReport, error) {
	started := time.Now()

	batchID := common.NewBatchID()

	files, err := s.source.List(ctx, s.maxFiles)
	if err != nil {
		return nil, fmt.Errorf("file listing from %s failed: %w", s.source.Name(), err)
	}

	s.logger.Info().
		Str("batch_id", batchID).
		Str("source", s.source.Name()).
		Int("files", len(files)).
		Int("concurrency", s.concurrency).
		Msg("Starting batch run")

	report := &models.BatchReport{
		Files: make([]models.FileReport, len(files)),
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for i, file := range files {
		select {
		case <-ctx.Done():
			report.Files[i] = models.FileReport{
				FileID:     file.ID,
				Filename:   file.Name,
				SkipReason: ctx.Err().Error(),
			}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		idx, info := i, file
		common.SafeGo(s.logger, "process-"+info.ID, func() {
			defer wg.Done()
			defer func() { <-sem }()
			report.Files[idx] = s.processFile(ctx, info)
		})
	}

	wg.Wait()

	for _, fr := range report.Files {
		if fr.SkipReason != "" {
			report.FilesSkipped++
		} else {
			report.FilesProcessed++
		}
	}

	report.PendingIssues = s.approvals.ListPending()

	s.logger.Info().
		Str("batch_id", batchID).
		Int("processed", report.FilesProcessed).
		Int("skipped", report.FilesSkipped).
		Int("pending_issues", len(report.PendingIssues)).
		Str("duration", time.Since(started).String()).
		Msg("Batch run complete")

	return report, nil
}

func (s *Service) processFile(ctx context.Context, info models.FileInfo) models.FileReport {
	fr := models.FileReport{
		FileID:   info.ID,
		Filename: info.Name,
	}

	content, err := s.source.Fetch(ctx, info.ID)
	if err != nil {
		s.logger.Warn().
			Str("file_id", info.ID).
			Str("filename", info.Name).
			Err(err).
			Msg("Fetch failed, skipping file")
		fr.SkipReason = err.Error()
		return fr
	}

	// Large documents get chunked, summarized and embedded; small ones go
	// straight to the detectors.
	if len(content.Content) > s.largeFileThreshold {
		result := s.processor.ProcessDocument(ctx, info.ID, content.Content, info.Name)
		fr.Chunked = result.Status != models.StatusFailed
		fr.ChunkCount = result.ChunkCount
		if result.Status == models.StatusFailed {
			s.logger.Warn().
				Str("file_id", info.ID).
				Err(result.Err).
				Msg("Chunk processing failed, continuing with detection")
		}
	}

	dupResult, err := s.dupes.DetectDuplicates(ctx, info.ID, content.Content, info.Name)
	if err != nil {
		s.logger.Warn().Str("file_id", info.ID).Err(err).Msg("Duplicate detection failed")
	} else {
		fr.Duplicates = len(dupResult.Duplicates)
	}

	piiResult := s.pii.DetectPII(content.Content, info.ID, info.Name)
	fr.PIIFound = piiResult.Found

	qualityResult := s.quality.ValidateQuality(content.Content, info.ID, info.Name, info.SizeBytes)
	fr.QualityIssues = qualityResult.Found

	return fr
}
