package interfaces

import (
	"context"

	"github.com/ternarybob/lustro/internal/models"
)

// ProcessorService memoizes chunk processing per document identity.
// A present cache entry is authoritative: repeated requests for the same file
// ID are answered from the cache without provider calls, even if the content
// has changed since.
type ProcessorService interface {
	// ProcessDocument chunks, summarizes, embeds and persists one document.
	// The result's Status distinguishes cache hits, fresh processing, and
	// store-write failures; provider degradation never surfaces here.
	ProcessDocument(ctx context.Context, fileID, content, filename string) *models.ProcessResult

	// CachedChunks returns the cached chunk sequence for a file ID, or nil.
	CachedChunks(fileID string) []*models.DocumentChunk
}

// SearchService answers semantic queries against the similarity store.
type SearchService interface {
	// SearchDocuments runs document-level k-NN for a natural language query.
	SearchDocuments(ctx context.Context, query string, limit int) ([]models.SearchResult, error)

	// SearchChunks runs chunk-level k-NN for precise results in large documents.
	SearchChunks(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// DuplicateDetector finds near-duplicate documents by vector similarity.
type DuplicateDetector interface {
	DetectDuplicates(ctx context.Context, fileID, content, filename string) (*models.DuplicateResult, error)
}

// PIIDetector scans content for personally identifiable information shapes.
type PIIDetector interface {
	DetectPII(content, fileID, filename string) *models.PIIResult
}

// QualityValidator applies structural checks to document content.
type QualityValidator interface {
	ValidateQuality(content, fileID, filename string, sizeBytes int64) *models.QualityResult
}
