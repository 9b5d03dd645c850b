package interfaces

import (
	"github.com/ternarybob/lustro/internal/models"
)

// Neighbor is one nearest-neighbor search hit, annotated with a similarity
// score in [0,1] (1 - cosine distance).
type Neighbor struct {
	Document   *models.Document
	Chunk      *models.DocumentChunk
	Similarity float64
}

// DocumentStorage persists document-level records and serves
// nearest-neighbor queries over their embeddings.
type DocumentStorage interface {
	// UpsertDocument saves a document keyed by its file ID,
	// last-write-wins on conflict.
	UpsertDocument(doc *models.Document) error
	GetDocument(fileID string) (*models.Document, error)
	DeleteDocument(fileID string) error

	// NearestDocuments returns up to limit documents ordered by ascending
	// cosine distance to the query embedding. excludeFileID, when non-empty,
	// removes the subject document from the results.
	NearestDocuments(embedding []float32, excludeFileID string, limit int) ([]Neighbor, error)

	CountDocuments() (int, error)
	ClearAll() error
}

// ChunkStorage persists chunk-level records keyed by (file ID, chunk index)
// and serves nearest-neighbor queries over chunk embeddings.
type ChunkStorage interface {
	// UpsertChunk saves a chunk, last-write-wins on (file ID, index) conflict.
	UpsertChunk(chunk *models.DocumentChunk) error
	GetChunks(fileID string) ([]*models.DocumentChunk, error)
	DeleteChunks(fileID string) error

	// NearestChunks returns up to limit chunks ordered by ascending cosine
	// distance to the query embedding.
	NearestChunks(embedding []float32, limit int) ([]Neighbor, error)

	CountChunks() (int, error)
	ClearAll() error
}

// AuditStorage persists approval decisions as an append-only trail.
type AuditStorage interface {
	AuditSink
	ListDecisions() ([]models.DecisionRecord, error)
}

// StorageManager is the composite handle over all storage collections.
type StorageManager interface {
	DocumentStorage() DocumentStorage
	ChunkStorage() ChunkStorage
	AuditStorage() AuditStorage
	Stats() (*models.DocumentStats, error)
	Close() error
}
