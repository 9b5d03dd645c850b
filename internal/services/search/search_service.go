package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

const (
	// DocumentPreviewLength caps the content excerpt in document-level results.
	DocumentPreviewLength = 200
	// ChunkPreviewLength caps the text excerpt in chunk-level results.
	ChunkPreviewLength = 300
	// DefaultSearchLimit is used when a caller passes limit <= 0.
	DefaultSearchLimit = 5
)

// Service answers semantic queries by embedding the query text and running
// nearest-neighbor lookups against the similarity store.
type Service struct {
	storage  interfaces.StorageManager
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewService creates a search service over the given storage manager.
func NewService(storage interfaces.StorageManager, embedder interfaces.EmbeddingService, logger arbor.ILogger) interfaces.SearchService {
	return &Service{
		storage:  storage,
		embedder: embedder,
		logger:   logger,
	}
}

// SearchDocuments runs document-level k-NN for a natural language query.
func (s *Service) SearchDocuments(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding := s.embedder.GenerateEmbedding(ctx, query)
	neighbors, err := s.storage.DocumentStorage().NearestDocuments(embedding, "", limit)
	if err != nil {
		return nil, fmt.Errorf("document search failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		results = append(results, models.SearchResult{
			FileID:   n.Document.FileID,
			Filename: n.Document.Filename,
			Preview:  excerpt(n.Document.Content, DocumentPreviewLength),
			Score:    roundScore(n.Similarity),
		})
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Document search completed")

	return results, nil
}

// SearchChunks runs chunk-level k-NN, which gives more precise hits inside
// large documents than whole-document search.
func (s *Service) SearchChunks(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding := s.embedder.GenerateEmbedding(ctx, query)
	neighbors, err := s.storage.ChunkStorage().NearestChunks(embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		filename := ""
		if v, ok := n.Chunk.Metadata["filename"].(string); ok {
			filename = v
		}
		results = append(results, models.SearchResult{
			FileID:     n.Chunk.FileID,
			Filename:   filename,
			ChunkIndex: n.Chunk.Index,
			Preview:    excerpt(n.Chunk.Text, ChunkPreviewLength),
			Summary:    n.Chunk.Summary,
			Score:      roundScore(n.Similarity),
		})
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Chunk search completed")

	return results, nil
}

func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

// roundScore converts a [0,1] similarity to a percentage with two decimals.
func roundScore(similarity float64) float64 {
	return math.Round(similarity*10000) / 100
}
