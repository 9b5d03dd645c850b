package badger

import (
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// AuditStorage persists approval decisions. Writes are fire-and-forget from
// the approval queue's perspective; a failed write is logged, never surfaced.
type AuditStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuditStorage {
	return &AuditStorage{
		db:     db,
		logger: logger,
	}
}

// RecordDecision writes the audit-trail record for one decision.
func (s *AuditStorage) RecordDecision(decision *models.ApprovalDecision) {
	record := models.DecisionRecord{
		ID:        common.NewDecisionID(),
		IssueID:   decision.Issue.ID,
		IssueType: decision.Issue.Type,
		FileID:    decision.Issue.FileID,
		Filename:  decision.Issue.Filename,
		Outcome:   decision.Outcome,
		Reason:    decision.Reason,
		DecidedAt: decision.DecidedAt,
	}

	if err := s.db.Store().Upsert(record.ID, &record); err != nil {
		s.logger.Error().
			Str("issue_id", record.IssueID).
			Err(err).
			Msg("Failed to persist approval decision")
		return
	}

	s.logger.Debug().
		Str("issue_id", record.IssueID).
		Str("outcome", string(record.Outcome)).
		Msg("Approval decision persisted")
}

// ListDecisions returns the audit trail ordered by decision time.
func (s *AuditStorage) ListDecisions() ([]models.DecisionRecord, error) {
	var records []models.DecisionRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to scan decisions: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DecidedAt.Before(records[j].DecidedAt)
	})
	return records, nil
}
