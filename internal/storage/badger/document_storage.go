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

// DocumentStorage implements the DocumentStorage interface for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) UpsertDocument(doc *models.Document) error {
	if doc.FileID == "" {
		return fmt.Errorf("document file ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.FileID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) GetDocument(fileID string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Store().Get(fileID, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document not found: %s", fileID)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) DeleteDocument(fileID string) error {
	if err := s.db.Store().Delete(fileID, &models.Document{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// NearestDocuments scans the documents collection and ranks records by cosine
// similarity to the query embedding. Badger has no native vector index, so
// this is a brute-force scan; the corpus a single pipeline handles (a few
// thousand documents) keeps that affordable.
func (s *DocumentStorage) NearestDocuments(embedding []float32, excludeFileID string, limit int) ([]interfaces.Neighbor, error) {
	if limit <= 0 {
		limit = 5
	}

	var docs []models.Document
	if err := s.db.Store().Find(&docs, badgerhold.Where("FileID").Ne(excludeFileID)); err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	neighbors := make([]interfaces.Neighbor, 0, len(docs))
	for i := range docs {
		if len(docs[i].Embedding) == 0 {
			continue
		}
		neighbors = append(neighbors, interfaces.Neighbor{
			Document:   &docs[i],
			Similarity: CosineSimilarity(embedding, docs[i].Embedding),
		})
	}

	// Ascending cosine distance = descending similarity
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})

	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors, nil
}

func (s *DocumentStorage) CountDocuments() (int, error) {
	count, err := s.db.Store().Count(&models.Document{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

func (s *DocumentStorage) ClearAll() error {
	return s.db.Store().DeleteMatching(&models.Document{}, nil)
}
