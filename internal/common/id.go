package common

import (
	"github.com/google/uuid"
)

// NewIssueID generates a unique issue ID with the "issue_" prefix
// Format: issue_<uuid>
func NewIssueID() string {
	return "issue_" + uuid.New().String()
}

// NewBatchID generates a unique batch run ID with the "batch_" prefix
// Format: batch_<uuid>
func NewBatchID() string {
	return "batch_" + uuid.New().String()
}

// NewDecisionID generates a unique audit record ID with the "decision_" prefix
// Format: decision_<uuid>
func NewDecisionID() string {
	return "decision_" + uuid.New().String()
}
