package detectors

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// fakeApprovals records submitted issues without queue semantics.
type fakeApprovals struct {
	submitted []*models.Issue
}

func (f *fakeApprovals) Submit(issue *models.Issue) {
	f.submitted = append(f.submitted, issue)
}

func (f *fakeApprovals) ListPending() []models.Issue {
	out := make([]models.Issue, len(f.submitted))
	for i, issue := range f.submitted {
		out[i] = *issue
	}
	return out
}

func (f *fakeApprovals) DetectedLog() []models.Issue { return f.ListPending() }

func (f *fakeApprovals) Approve(index int) (*models.ApprovalDecision, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeApprovals) Reject(index int, reason string) (*models.ApprovalDecision, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeApprovals) ApproveByID(id string) (*models.ApprovalDecision, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeApprovals) RejectByID(id, reason string) (*models.ApprovalDecision, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeApprovals) PendingCount() int { return len(f.submitted) }

var _ interfaces.ApprovalService = (*fakeApprovals)(nil)

// fakeEmbedder returns a fixed vector and counts calls.
type fakeEmbedder struct {
	vector []float32
	calls  int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) []float32 {
	f.calls++
	if f.vector != nil {
		return f.vector
	}
	return make([]float32, 4)
}

func (f *fakeEmbedder) Dimension() int { return 4 }

func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return true }

var _ interfaces.EmbeddingService = (*fakeEmbedder)(nil)

// fakeDocStorage serves canned neighbors and records upserts.
type fakeDocStorage struct {
	neighbors []interfaces.Neighbor
	upserted  []*models.Document
	findErr   error
}

func (f *fakeDocStorage) UpsertDocument(doc *models.Document) error {
	f.upserted = append(f.upserted, doc)
	return nil
}

func (f *fakeDocStorage) GetDocument(fileID string) (*models.Document, error) {
	return nil, fmt.Errorf("document not found: %s", fileID)
}

func (f *fakeDocStorage) DeleteDocument(fileID string) error { return nil }

func (f *fakeDocStorage) NearestDocuments(embedding []float32, excludeFileID string, limit int) ([]interfaces.Neighbor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.neighbors) > limit {
		return f.neighbors[:limit], nil
	}
	return f.neighbors, nil
}

func (f *fakeDocStorage) CountDocuments() (int, error) { return len(f.upserted), nil }

func (f *fakeDocStorage) ClearAll() error { return nil }

var _ interfaces.DocumentStorage = (*fakeDocStorage)(nil)
