package interfaces

import (
	"github.com/ternarybob/lustro/internal/models"
)

// AuditSink receives approval decisions for external logging or execution.
// Decisions are fire-and-forget from the queue's perspective; the sink owns
// any remediation the decision authorizes.
type AuditSink interface {
	RecordDecision(decision *models.ApprovalDecision)
}

// ApprovalService owns the pending-issue queue and the append-only
// detected-issues log. Every mutating operation is serialized: positional
// indices are only meaningful against a consistent queue snapshot.
type ApprovalService interface {
	// Submit appends an issue to both the detected log and the pending queue,
	// assigning a stable ID if the issue has none.
	Submit(issue *models.Issue)

	// ListPending returns the pending issues in insertion order.
	ListPending() []models.Issue

	// DetectedLog returns every issue ever detected, including resolved ones.
	DetectedLog() []models.Issue

	// Approve resolves the pending issue at index. The index must satisfy
	// 0 <= index < pending count; otherwise an out-of-range error naming the
	// valid range is returned and the queue is unchanged.
	Approve(index int) (*models.ApprovalDecision, error)

	// Reject resolves the pending issue at index with a free-text reason.
	Reject(index int, reason string) (*models.ApprovalDecision, error)

	// ApproveByID resolves a pending issue by its stable identifier.
	ApproveByID(id string) (*models.ApprovalDecision, error)

	// RejectByID resolves a pending issue by its stable identifier.
	RejectByID(id string, reason string) (*models.ApprovalDecision, error)

	// PendingCount returns the number of unresolved issues.
	PendingCount() int
}
