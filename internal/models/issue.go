package models

import (
	"time"
)

// IssueType identifies the detector that raised an issue.
type IssueType string

const (
	IssueTypeDuplicate IssueType = "DUPLICATE"
	IssueTypePII       IssueType = "PII_DETECTED"
	IssueTypeQuality   IssueType = "QUALITY_ISSUE"
)

// Confidence tiers a detector's certainty about an issue.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// RecommendedAction tags the remediation a reviewer is asked to approve.
// The pipeline never executes these itself; an external action executor
// receives the approval decision and acts on it.
type RecommendedAction string

const (
	ActionRemoveDuplicate RecommendedAction = "REMOVE_DUPLICATE"
	ActionMarkSensitive   RecommendedAction = "MARK_SENSITIVE"
	ActionFlagForReview   RecommendedAction = "FLAG_FOR_REVIEW"
)

// DuplicateMatch is one near-neighbor found above the similarity threshold.
type DuplicateMatch struct {
	FileID     string     `json:"duplicate_file_id"`
	Filename   string     `json:"duplicate_filename"`
	Similarity float64    `json:"similarity_score"` // percent, two decimals
	Confidence Confidence `json:"confidence"`
}

// PIIFinding reports the matches of one pattern class within a document.
type PIIFinding struct {
	Count   int      `json:"count"`
	Samples []string `json:"samples"` // at most 3 literal matches
}

// Issue is one detected problem awaiting a human decision. Issues are
// appended to the permanent detected-issues log and to the pending-approval
// queue; only the queue is mutated by approve/reject.
type Issue struct {
	ID       string    `json:"id"` // stable opaque identifier, issue_<uuid>
	Type     IssueType `json:"type"`
	FileID   string    `json:"file_id"`
	Filename string    `json:"filename"`

	// Kind-specific evidence; exactly one of these is populated
	Duplicates  []DuplicateMatch      `json:"duplicates,omitempty"`
	PIIFindings map[string]PIIFinding `json:"pii_findings,omitempty"` // keyed by pattern class
	Flags       []string              `json:"flags,omitempty"`        // quality flag descriptions

	Action         RecommendedAction `json:"action"`
	Confidence     Confidence        `json:"confidence"`
	Recommendation string            `json:"recommendation"`

	DetectedAt time.Time `json:"detected_at"`
}

// DecisionOutcome is the terminal state a reviewed issue reaches.
type DecisionOutcome string

const (
	DecisionApproved DecisionOutcome = "APPROVED"
	DecisionRejected DecisionOutcome = "REJECTED"
)

// ApprovalDecision records the resolution of one pending issue. It is handed
// to the audit sink and returned to the caller; the queue does not persist it.
type ApprovalDecision struct {
	Outcome   DecisionOutcome `json:"outcome"`
	Issue     Issue           `json:"issue"`
	Reason    string          `json:"reason,omitempty"` // rejection only
	DecidedAt time.Time       `json:"decided_at"`
}

// DecisionRecord is the durable audit-trail form of an approval decision.
type DecisionRecord struct {
	ID        string          `json:"id"`
	IssueID   string          `json:"issue_id"`
	IssueType IssueType       `json:"issue_type"`
	FileID    string          `json:"file_id"`
	Filename  string          `json:"filename"`
	Outcome   DecisionOutcome `json:"outcome"`
	Reason    string          `json:"reason,omitempty"`
	DecidedAt time.Time       `json:"decided_at"`
}
