package models

// ProcessStatus is the outcome tag of a chunk-processing request.
type ProcessStatus string

const (
	// StatusCached means the document already had a cache entry and no
	// provider or store calls were made.
	StatusCached ProcessStatus = "CACHED"
	// StatusProcessed means the document was chunked, summarized, embedded
	// and persisted.
	StatusProcessed ProcessStatus = "PROCESSED"
	// StatusFailed means a store write failed; the cache was left untouched.
	StatusFailed ProcessStatus = "FAILED"
)

// ProcessResult reports the outcome of processing one document through the
// chunk cache. Callers switch on Status; Err is set only for StatusFailed.
type ProcessResult struct {
	Status     ProcessStatus `json:"status"`
	ChunkCount int           `json:"chunk_count"`
	TotalChars int           `json:"total_chars"`
	Err        error         `json:"-"`
}

// DuplicateResult reports the outcome of duplicate detection for one document.
type DuplicateResult struct {
	Duplicates []DuplicateMatch `json:"duplicates"`
	Threshold  float64          `json:"threshold"`
}

// PIIResult reports the outcome of PII scanning for one document.
type PIIResult struct {
	Found           bool                  `json:"pii_found"`
	Findings        map[string]PIIFinding `json:"findings"`
	PatternsChecked []string              `json:"patterns_checked"`
}

// QualityResult reports the outcome of structural validation for one document.
type QualityResult struct {
	Found bool     `json:"quality_issues_found"`
	Flags []string `json:"flags"`
}

// FileReport is the per-document summary accumulated during a batch run.
type FileReport struct {
	FileID        string `json:"file_id"`
	Filename      string `json:"filename"`
	Chunked       bool   `json:"chunked"`
	ChunkCount    int    `json:"chunk_count"`
	Duplicates    int    `json:"duplicates"`
	PIIFound      bool   `json:"pii_found"`
	QualityIssues bool   `json:"quality_issues"`
	SkipReason    string `json:"skip_reason,omitempty"` // set when fetch failed
}

// BatchReport aggregates a full batch run: one entry per fetchable document
// plus a snapshot of the pending-approval queue taken after the last document.
type BatchReport struct {
	FilesProcessed int          `json:"files_processed"`
	FilesSkipped   int          `json:"files_skipped"`
	Files          []FileReport `json:"files"`
	PendingIssues  []Issue      `json:"pending_issues"`
}

// SearchResult is one hit from document-level or chunk-level semantic search.
type SearchResult struct {
	FileID     string  `json:"file_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index,omitempty"` // chunk-level only
	Preview    string  `json:"preview"`
	Summary    string  `json:"summary,omitempty"` // chunk-level only
	Score      float64 `json:"relevance_score"`   // percent, two decimals
}
