// Package detectors implements the three document checks: near-duplicate
// detection by vector similarity, pattern-based PII scanning, and structural
// quality validation. Each detector reports its findings and submits at most
// one issue per document to the approval queue.
package detectors

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

const (
	// DefaultDuplicateThreshold is the minimum similarity treated as a match.
	DefaultDuplicateThreshold = 0.85

	// HighConfidenceThreshold tiers a match as HIGH rather than MEDIUM.
	HighConfidenceThreshold = 0.90

	// DefaultNeighborLimit caps the nearest-neighbor query.
	DefaultNeighborLimit = 5

	// StoredContentLimit bounds the content prefix persisted with a document.
	StoredContentLimit = 10000
)

// DuplicateDetector finds near-duplicate documents via the similarity store.
type DuplicateDetector struct {
	docStorage interfaces.DocumentStorage
	embedder   interfaces.EmbeddingService
	approvals  interfaces.ApprovalService
	threshold  float64
	limit      int
	logger     arbor.ILogger
}

// NewDuplicateDetector creates a duplicate detector. threshold <= 0 selects
// the default; limit <= 0 selects the default neighbor cap.
func NewDuplicateDetector(
	docStorage interfaces.DocumentStorage,
	embedder interfaces.EmbeddingService,
	approvals interfaces.ApprovalService,
	threshold float64,
	limit int,
	logger arbor.ILogger,
) *DuplicateDetector {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}
	if limit <= 0 {
		limit = DefaultNeighborLimit
	}
	return &DuplicateDetector{
		docStorage: docStorage,
		embedder:   embedder,
		approvals:  approvals,
		threshold:  threshold,
		limit:      limit,
		logger:     logger,
	}
}

// DetectDuplicates embeds a bounded prefix of the content, queries the
// document index for near neighbors (excluding the subject), and keeps those
// at or above the threshold. Whatever the outcome, the subject document is
// upserted afterwards so the corpus grows for future comparisons.
func (d *DuplicateDetector) DetectDuplicates(ctx context.Context, fileID, content, filename string) (*models.DuplicateResult, error) {
	if d.docStorage == nil {
		return nil, fmt.Errorf("similarity store not initialized")
	}

	embedding := d.embedder.GenerateEmbedding(ctx, content)

	neighbors, err := d.docStorage.NearestDocuments(embedding, fileID, d.limit)
	if err != nil {
		return nil, fmt.Errorf("duplicate detection failed: %w", err)
	}

	var duplicates []models.DuplicateMatch
	for _, n := range neighbors {
		if n.Similarity < d.threshold {
			continue
		}
		confidence := models.ConfidenceMedium
		if n.Similarity >= HighConfidenceThreshold {
			confidence = models.ConfidenceHigh
		}
		duplicates = append(duplicates, models.DuplicateMatch{
			FileID:     n.Document.FileID,
			Filename:   n.Document.Filename,
			Similarity: roundScore(n.Similarity),
			Confidence: confidence,
		})
	}

	stored := content
	if len(stored) > StoredContentLimit {
		stored = stored[:StoredContentLimit]
	}
	doc := &models.Document{
		FileID:    fileID,
		Filename:  filename,
		Content:   stored,
		SizeBytes: int64(len(content)),
		Embedding: embedding,
		Metadata:  map[string]interface{}{"source": "file_source"},
	}
	if err := d.docStorage.UpsertDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to upsert document %s: %w", fileID, err)
	}

	if len(duplicates) > 0 {
		// The list is ordered by descending similarity, so the first entry
		// carries the highest confidence tier.
		issue := &models.Issue{
			Type:           models.IssueTypeDuplicate,
			FileID:         fileID,
			Filename:       filename,
			Duplicates:     duplicates,
			Action:         models.ActionRemoveDuplicate,
			Confidence:     duplicates[0].Confidence,
			Recommendation: fmt.Sprintf("Remove %d duplicate(s) to save storage", len(duplicates)),
			DetectedAt:     time.Now(),
		}
		d.approvals.Submit(issue)

		d.logger.Info().
			Str("file_id", fileID).
			Str("filename", filename).
			Int("duplicates", len(duplicates)).
			Str("confidence", string(issue.Confidence)).
			Msg("Duplicate issue queued for approval")
	}

	return &models.DuplicateResult{
		Duplicates: duplicates,
		Threshold:  d.threshold,
	}, nil
}

// roundScore converts a similarity in [0,1] to a percentage with two decimals.
func roundScore(similarity float64) float64 {
	return math.Round(similarity*10000) / 100
}
