// Package processor owns the chunk cache: per-document memoization of the
// chunk/summarize/embed pipeline plus durable persistence of every chunk.
package processor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
	"github.com/ternarybob/lustro/internal/services/chunker"
	"golang.org/x/sync/singleflight"
)

// Service implements ProcessorService. The cache is keyed by document
// identity, not content hash: a repeated request for a known file ID is
// answered from memory without provider calls even when the content has
// changed. That bounds provider spend per batch run; a process restart is
// the eviction boundary.
type Service struct {
	chunkStorage interfaces.ChunkStorage
	embedder     interfaces.EmbeddingService
	summarizer   interfaces.SummarizerService
	chunkSize    int
	overlap      int
	logger       arbor.ILogger

	mu    sync.RWMutex
	cache map[string][]*models.DocumentChunk

	// group collapses concurrent requests for the same file ID into one
	// in-flight processing run whose result all callers share.
	group singleflight.Group
}

// NewService creates a new processor service
func NewService(
	chunkStorage interfaces.ChunkStorage,
	embedder interfaces.EmbeddingService,
	summarizer interfaces.SummarizerService,
	chunkSize, overlap int,
	logger arbor.ILogger,
) *Service {
	return &Service{
		chunkStorage: chunkStorage,
		embedder:     embedder,
		summarizer:   summarizer,
		chunkSize:    chunkSize,
		overlap:      overlap,
		logger:       logger,
		cache:        make(map[string][]*models.DocumentChunk),
	}
}

// ProcessDocument chunks the content, derives a summary and an embedding per
// chunk (the embedding is computed over the summary - search precision favors
// summarized intent over raw text), upserts every chunk to durable storage,
// and caches the processed sequence in memory.
//
// Provider failures never fail the document: the embedder and summarizer
// degrade to a zero vector and a truncated excerpt respectively. Only a
// store-write error yields StatusFailed, and in that case the cache is left
// unpopulated so a retry reprocesses from scratch.
func (s *Service) ProcessDocument(ctx context.Context, fileID, content, filename string) *models.ProcessResult {
	if fileID == "" {
		return &models.ProcessResult{Status: models.StatusFailed, Err: fmt.Errorf("file ID is required")}
	}

	if cached := s.CachedChunks(fileID); cached != nil {
		s.logger.Debug().
			Str("file_id", fileID).
			Int("chunks", len(cached)).
			Msg("Chunk cache hit")
		return &models.ProcessResult{
			Status:     models.StatusCached,
			ChunkCount: len(cached),
		}
	}

	result, _, _ := s.group.Do(fileID, func() (interface{}, error) {
		// Re-check under single-flight: a concurrent caller may have
		// populated the cache while this one waited.
		if cached := s.CachedChunks(fileID); cached != nil {
			return &models.ProcessResult{
				Status:     models.StatusCached,
				ChunkCount: len(cached),
			}, nil
		}
		return s.processLocked(ctx, fileID, content, filename), nil
	})

	return result.(*models.ProcessResult)
}

func (s *Service) processLocked(ctx context.Context, fileID, content, filename string) *models.ProcessResult {
	chunks, err := chunker.Chunk(content, s.chunkSize, s.overlap)
	if err != nil {
		return &models.ProcessResult{Status: models.StatusFailed, Err: fmt.Errorf("chunking failed: %w", err)}
	}

	processed := make([]*models.DocumentChunk, 0, len(chunks))
	for i := range chunks {
		chunk := chunks[i]
		chunk.FileID = fileID
		chunk.Summary = s.summarizer.Summarize(ctx, chunk.Text)
		chunk.Embedding = s.embedder.GenerateEmbedding(ctx, chunk.Summary)
		chunk.Metadata = map[string]interface{}{
			"filename":  filename,
			"start_pos": chunk.StartPos,
			"end_pos":   chunk.EndPos,
		}

		if err := s.chunkStorage.UpsertChunk(&chunk); err != nil {
			s.logger.Error().
				Err(err).
				Str("file_id", fileID).
				Int("chunk_index", chunk.Index).
				Msg("Chunk persistence failed - document not cached")
			return &models.ProcessResult{
				Status: models.StatusFailed,
				Err:    fmt.Errorf("failed to persist chunk %d: %w", chunk.Index, err),
			}
		}

		processed = append(processed, &chunk)
	}

	s.mu.Lock()
	s.cache[fileID] = processed
	s.mu.Unlock()

	s.logger.Info().
		Str("file_id", fileID).
		Str("filename", filename).
		Int("chunks", len(processed)).
		Int("total_chars", len(content)).
		Msg("Document chunked and cached")

	return &models.ProcessResult{
		Status:     models.StatusProcessed,
		ChunkCount: len(processed),
		TotalChars: len(content),
	}
}

// CachedChunks returns the cached chunk sequence for a file ID, or nil when
// the document has not been processed in this pipeline's lifetime.
func (s *Service) CachedChunks(fileID string) []*models.DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[fileID]
}

// CacheSize returns the number of cached documents.
func (s *Service) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
