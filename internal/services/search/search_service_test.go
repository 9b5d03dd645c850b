package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) []float32 {
	return []float32{1, 0, 0}
}

func (f *fakeEmbedder) Dimension() int { return 3 }

func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return true }

// fakeStorageManager serves canned neighbors for both collections.
type fakeStorageManager struct {
	docNeighbors   []interfaces.Neighbor
	chunkNeighbors []interfaces.Neighbor
}

func (f *fakeStorageManager) DocumentStorage() interfaces.DocumentStorage {
	return &fakeDocStorage{neighbors: f.docNeighbors}
}

func (f *fakeStorageManager) ChunkStorage() interfaces.ChunkStorage {
	return &fakeChunkStorage{neighbors: f.chunkNeighbors}
}

func (f *fakeStorageManager) AuditStorage() interfaces.AuditStorage { return nil }

func (f *fakeStorageManager) Stats() (*models.DocumentStats, error) { return nil, nil }

func (f *fakeStorageManager) Close() error { return nil }

type fakeDocStorage struct {
	neighbors []interfaces.Neighbor
}

func (f *fakeDocStorage) UpsertDocument(doc *models.Document) error { return nil }

func (f *fakeDocStorage) GetDocument(fileID string) (*models.Document, error) { return nil, nil }

func (f *fakeDocStorage) DeleteDocument(fileID string) error { return nil }

func (f *fakeDocStorage) NearestDocuments(embedding []float32, excludeFileID string, limit int) ([]interfaces.Neighbor, error) {
	if len(f.neighbors) > limit {
		return f.neighbors[:limit], nil
	}
	return f.neighbors, nil
}

func (f *fakeDocStorage) CountDocuments() (int, error) { return len(f.neighbors), nil }

func (f *fakeDocStorage) ClearAll() error { return nil }

type fakeChunkStorage struct {
	neighbors []interfaces.Neighbor
}

func (f *fakeChunkStorage) UpsertChunk(chunk *models.DocumentChunk) error { return nil }

func (f *fakeChunkStorage) GetChunks(fileID string) ([]*models.DocumentChunk, error) {
	return nil, nil
}

func (f *fakeChunkStorage) DeleteChunks(fileID string) error { return nil }

func (f *fakeChunkStorage) NearestChunks(embedding []float32, limit int) ([]interfaces.Neighbor, error) {
	if len(f.neighbors) > limit {
		return f.neighbors[:limit], nil
	}
	return f.neighbors, nil
}

func (f *fakeChunkStorage) CountChunks() (int, error) { return len(f.neighbors), nil }

func (f *fakeChunkStorage) ClearAll() error { return nil }

func TestSearchDocuments(t *testing.T) {
	storage := &fakeStorageManager{
		docNeighbors: []interfaces.Neighbor{
			{
				Document: &models.Document{
					FileID:   "doc1",
					Filename: "report.txt",
					Content:  strings.Repeat("relevant body text ", 30),
				},
				Similarity: 0.92,
			},
			{
				Document:   &models.Document{FileID: "doc2", Filename: "notes.txt", Content: "short"},
				Similarity: 0.71,
			},
		},
	}
	svc := NewService(storage, &fakeEmbedder{}, createTestLogger())

	results, err := svc.SearchDocuments(context.Background(), "quarterly report", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "doc1", results[0].FileID)
	assert.Equal(t, "report.txt", results[0].Filename)
	assert.Equal(t, 92.0, results[0].Score)
	assert.Len(t, results[0].Preview, DocumentPreviewLength)

	// Short content is returned whole
	assert.Equal(t, "short", results[1].Preview)
	assert.Equal(t, 71.0, results[1].Score)
}

func TestSearchDocuments_EmptyQuery(t *testing.T) {
	svc := NewService(&fakeStorageManager{}, &fakeEmbedder{}, createTestLogger())

	_, err := svc.SearchDocuments(context.Background(), "   ", 5)
	assert.Error(t, err)
}

func TestSearchChunks(t *testing.T) {
	storage := &fakeStorageManager{
		chunkNeighbors: []interfaces.Neighbor{
			{
				Chunk: &models.DocumentChunk{
					FileID:   "doc1",
					Index:    2,
					Text:     strings.Repeat("chunk body ", 40),
					Summary:  "chunk about revenue",
					Metadata: map[string]interface{}{"filename": "report.txt"},
				},
				Similarity: 0.88,
			},
		},
	}
	svc := NewService(storage, &fakeEmbedder{}, createTestLogger())

	results, err := svc.SearchChunks(context.Background(), "revenue", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "doc1", results[0].FileID)
	assert.Equal(t, "report.txt", results[0].Filename)
	assert.Equal(t, 2, results[0].ChunkIndex)
	assert.Equal(t, "chunk about revenue", results[0].Summary)
	assert.Equal(t, 88.0, results[0].Score)
	assert.Len(t, results[0].Preview, ChunkPreviewLength)
}

func TestSearch_DefaultLimit(t *testing.T) {
	neighbors := make([]interfaces.Neighbor, 10)
	for i := range neighbors {
		neighbors[i] = interfaces.Neighbor{
			Document:   &models.Document{FileID: "doc"},
			Similarity: 0.5,
		}
	}
	svc := NewService(&fakeStorageManager{docNeighbors: neighbors}, &fakeEmbedder{}, createTestLogger())

	results, err := svc.SearchDocuments(context.Background(), "query", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultSearchLimit)
}
