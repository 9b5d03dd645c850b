package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) UpsertChunk(chunk *models.DocumentChunk) error {
	if chunk.FileID == "" {
		return fmt.Errorf("chunk file ID is required")
	}
	if chunk.Index < 0 {
		return fmt.Errorf("chunk index must not be negative: %d", chunk.Index)
	}

	now := time.Now()
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = now
	}
	chunk.UpdatedAt = now

	if err := s.db.Store().Upsert(chunk.Key(), chunk); err != nil {
		return fmt.Errorf("failed to save chunk %s: %w", chunk.Key(), err)
	}
	return nil
}

func (s *ChunkStorage) GetChunks(fileID string) ([]*models.DocumentChunk, error) {
	var chunks []models.DocumentChunk
	if err := s.db.Store().Find(&chunks, badgerhold.Where("FileID").Eq(fileID)); err != nil {
		return nil, fmt.Errorf("failed to get chunks for %s: %w", fileID, err)
	}

	// Preserve window emission order
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	result := make([]*models.DocumentChunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *ChunkStorage) DeleteChunks(fileID string) error {
	if err := s.db.Store().DeleteMatching(&models.DocumentChunk{}, badgerhold.Where("FileID").Eq(fileID)); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", fileID, err)
	}
	return nil
}

// NearestChunks scans the chunks collection and ranks records by cosine
// similarity to the query embedding, same brute-force strategy as
// DocumentStorage.NearestDocuments.
func (s *ChunkStorage) NearestChunks(embedding []float32, limit int) ([]interfaces.Neighbor, error) {
	if limit <= 0 {
		limit = 10
	}

	var chunks []models.DocumentChunk
	if err := s.db.Store().Find(&chunks, nil); err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}

	neighbors := make([]interfaces.Neighbor, 0, len(chunks))
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			continue
		}
		neighbors = append(neighbors, interfaces.Neighbor{
			Chunk:      &chunks[i],
			Similarity: CosineSimilarity(embedding, chunks[i].Embedding),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})

	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors, nil
}

func (s *ChunkStorage) CountChunks() (int, error) {
	count, err := s.db.Store().Count(&models.DocumentChunk{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}

func (s *ChunkStorage) ClearAll() error {
	return s.db.Store().DeleteMatching(&models.DocumentChunk{}, nil)
}
