package approval

import (
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// Service holds the human-review queue. Pending issues wait for an
// approve/reject decision; the detected log keeps every issue ever
// submitted regardless of later decisions.
type Service struct {
	mu       sync.Mutex
	pending  []*models.Issue
	detected []*models.Issue
	audit    interfaces.AuditSink
	logger   arbor.ILogger
}

// NewService creates an approval queue. The audit sink may be nil.
func NewService(audit interfaces.AuditSink, logger arbor.ILogger) interfaces.ApprovalService {
	return &Service{
		audit:  audit,
		logger: logger,
	}
}

// Submit queues an issue for review and records it in the detected log.
// Issues without an ID are assigned one.
func (s *Service) Submit(issue *models.Issue) {
	if issue == nil {
		return
	}
	if issue.ID == "" {
		issue.ID = common.NewIssueID()
	}
	if issue.DetectedAt.IsZero() {
		issue.DetectedAt = time.Now()
	}

	s.mu.Lock()
	s.pending = append(s.pending, issue)
	s.detected = append(s.detected, issue)
	s.mu.Unlock()

	s.logger.Info().
		Str("issue_id", issue.ID).
		Str("type", string(issue.Type)).
		Str("file_id", issue.FileID).
		Msg("Issue queued for approval")
}

// ListPending returns a snapshot of the pending queue. Index positions in
// the returned slice are valid arguments to Approve and Reject until the
// queue is next mutated.
func (s *Service) ListPending() []models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Issue, len(s.pending))
	for i, issue := range s.pending {
		out[i] = *issue
	}
	return out
}

// DetectedLog returns a snapshot of every issue ever submitted.
func (s *Service) DetectedLog() []models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Issue, len(s.detected))
	for i, issue := range s.detected {
		out[i] = *issue
	}
	return out
}

// Approve removes the issue at the given pending-queue index and records
// an APPROVED decision, meaning the recommended action should be taken.
func (s *Service) Approve(index int) (*models.ApprovalDecision, error) {
	return s.decideByIndex(index, models.DecisionApproved, "")
}

// Reject removes the issue at the given pending-queue index and records
// a REJECTED decision with an optional reason.
func (s *Service) Reject(index int, reason string) (*models.ApprovalDecision, error) {
	return s.decideByIndex(index, models.DecisionRejected, reason)
}

// ApproveByID locates a pending issue by its stable ID and approves it.
func (s *Service) ApproveByID(issueID string) (*models.ApprovalDecision, error) {
	return s.decideByID(issueID, models.DecisionApproved, "")
}

// RejectByID locates a pending issue by its stable ID and rejects it.
func (s *Service) RejectByID(issueID string, reason string) (*models.ApprovalDecision, error) {
	return s.decideByID(issueID, models.DecisionRejected, reason)
}

// PendingCount returns the number of issues awaiting a decision.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Service) decideByIndex(index int, outcome models.DecisionOutcome, reason string) (*models.ApprovalDecision, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.pending) {
		n := len(s.pending)
		s.mu.Unlock()
		if n == 0 {
			return nil, fmt.Errorf("no pending issues")
		}
		return nil, fmt.Errorf("invalid issue index %d, valid range: 0-%d", index, n-1)
	}
	issue := s.removeLocked(index)
	s.mu.Unlock()

	return s.record(issue, outcome, reason), nil
}

func (s *Service) decideByID(issueID string, outcome models.DecisionOutcome, reason string) (*models.ApprovalDecision, error) {
	s.mu.Lock()
	index := -1
	for i, issue := range s.pending {
		if issue.ID == issueID {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("no pending issue with id %s", issueID)
	}
	issue := s.removeLocked(index)
	s.mu.Unlock()

	return s.record(issue, outcome, reason), nil
}

// removeLocked pops the issue at index, preserving queue order. Caller
// must hold the mutex.
func (s *Service) removeLocked(index int) *models.Issue {
	issue := s.pending[index]
	s.pending = append(s.pending[:index], s.pending[index+1:]...)
	return issue
}

func (s *Service) record(issue *models.Issue, outcome models.DecisionOutcome, reason string) *models.ApprovalDecision {
	decision := &models.ApprovalDecision{
		Outcome:   outcome,
		Issue:     *issue,
		Reason:    reason,
		DecidedAt: time.Now(),
	}

	s.logger.Info().
		Str("issue_id", issue.ID).
		Str("type", string(issue.Type)).
		Str("outcome", string(outcome)).
		Msg("Approval decision recorded")

	if s.audit != nil {
		s.audit.RecordDecision(decision)
	}
	return decision
}
