package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/models"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// recordingSink captures decisions handed to the audit sink.
type recordingSink struct {
	decisions []*models.ApprovalDecision
}

func (r *recordingSink) RecordDecision(decision *models.ApprovalDecision) {
	r.decisions = append(r.decisions, decision)
}

func testIssue(fileID string) *models.Issue {
	return &models.Issue{
		Type:     models.IssueTypeDuplicate,
		FileID:   fileID,
		Filename: fileID + ".txt",
		Action:   models.ActionRemoveDuplicate,
	}
}

func TestSubmit_AssignsIDAndTimestamp(t *testing.T) {
	svc := NewService(nil, createTestLogger())

	issue := testIssue("doc1")
	svc.Submit(issue)

	pending := svc.ListPending()
	require.Len(t, pending, 1)
	assert.NotEmpty(t, pending[0].ID)
	assert.False(t, pending[0].DetectedAt.IsZero())
}

func TestSubmit_KeepsExistingID(t *testing.T) {
	svc := NewService(nil, createTestLogger())

	issue := testIssue("doc1")
	issue.ID = "issue_fixed"
	svc.Submit(issue)

	assert.Equal(t, "issue_fixed", svc.ListPending()[0].ID)
}

func TestApprove_RemovesFromPendingOnly(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(testIssue("doc1"))
	svc.Submit(testIssue("doc2"))

	decision, err := svc.Approve(0)
	require.NoError(t, err)

	assert.Equal(t, models.DecisionApproved, decision.Outcome)
	assert.Equal(t, "doc1", decision.Issue.FileID)
	assert.False(t, decision.DecidedAt.IsZero())

	// doc2 shifts to index 0; the detected log keeps both
	pending := svc.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, "doc2", pending[0].FileID)
	assert.Len(t, svc.DetectedLog(), 2)
}

func TestReject_CarriesReason(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(testIssue("doc1"))

	decision, err := svc.Reject(0, "false positive")
	require.NoError(t, err)

	assert.Equal(t, models.DecisionRejected, decision.Outcome)
	assert.Equal(t, "false positive", decision.Reason)
	assert.Equal(t, 0, svc.PendingCount())
}

func TestApprove_InvalidIndexLeavesQueueUntouched(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(testIssue("doc1"))
	svc.Submit(testIssue("doc2"))

	for _, index := range []int{-1, 2, 99} {
		_, err := svc.Approve(index)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "valid range: 0-1")
	}
	assert.Equal(t, 2, svc.PendingCount())
}

func TestApprove_EmptyQueue(t *testing.T) {
	svc := NewService(nil, createTestLogger())

	_, err := svc.Approve(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pending issues")
}

func TestApproveByID(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(testIssue("doc1"))
	svc.Submit(testIssue("doc2"))
	svc.Submit(testIssue("doc3"))

	targetID := svc.ListPending()[1].ID

	decision, err := svc.ApproveByID(targetID)
	require.NoError(t, err)
	assert.Equal(t, "doc2", decision.Issue.FileID)

	// Remaining issues keep their relative order
	pending := svc.ListPending()
	require.Len(t, pending, 2)
	assert.Equal(t, "doc1", pending[0].FileID)
	assert.Equal(t, "doc3", pending[1].FileID)
}

func TestRejectByID_UnknownID(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(testIssue("doc1"))

	_, err := svc.RejectByID("issue_missing", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue_missing")
	assert.Equal(t, 1, svc.PendingCount())
}

func TestDecisions_ReachAuditSink(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(sink, createTestLogger())
	svc.Submit(testIssue("doc1"))
	svc.Submit(testIssue("doc2"))

	_, err := svc.Approve(0)
	require.NoError(t, err)
	_, err = svc.Reject(0, "noise")
	require.NoError(t, err)

	require.Len(t, sink.decisions, 2)
	assert.Equal(t, models.DecisionApproved, sink.decisions[0].Outcome)
	assert.Equal(t, "doc1", sink.decisions[0].Issue.FileID)
	assert.Equal(t, models.DecisionRejected, sink.decisions[1].Outcome)
	assert.Equal(t, "doc2", sink.decisions[1].Issue.FileID)
}

func TestSubmit_NilIssueIgnored(t *testing.T) {
	svc := NewService(nil, createTestLogger())
	svc.Submit(nil)
	assert.Equal(t, 0, svc.PendingCount())
}
