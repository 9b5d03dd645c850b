package detectors

import (
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

const (
	// MinContentLength is the trimmed length below which content counts as minimal.
	MinContentLength = 10

	// MaxFileSizeBytes is the declared-size ceiling (500 MiB).
	MaxFileSizeBytes = 500 * 1024 * 1024
)

// corruptionChecks are applied in order; the first match short-circuits the
// corruption check so a document gets at most one corruption flag.
var corruptionChecks = []struct {
	pattern     *regexp.Regexp
	description string
}{
	// Control characters outside common whitespace (\t \n \r)
	{regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F]"), "Control characters detected"},
	// Three or more consecutive Unicode replacement characters
	{regexp.MustCompile("�{3,}"), "Multiple replacement characters (corruption)"},
}

// QualityValidator applies structural checks to document content.
type QualityValidator struct {
	approvals interfaces.ApprovalService
	logger    arbor.ILogger
}

// NewQualityValidator creates a quality validator.
func NewQualityValidator(approvals interfaces.ApprovalService, logger arbor.ILogger) *QualityValidator {
	return &QualityValidator{
		approvals: approvals,
		logger:    logger,
	}
}

// ValidateQuality runs the structural checks. Each check is independently
// additive to the flag list; if any fired, one QUALITY_ISSUE issue is queued.
func (d *QualityValidator) ValidateQuality(content, fileID, filename string, sizeBytes int64) *models.QualityResult {
	var flags []string

	if len(strings.TrimSpace(content)) < MinContentLength {
		flags = append(flags, "Empty or minimal content (less than 10 characters)")
	}

	for _, check := range corruptionChecks {
		if check.pattern.MatchString(content) {
			flags = append(flags, check.description)
			break
		}
	}

	if sizeBytes > MaxFileSizeBytes {
		flags = append(flags, "File exceeds size limit (500MB)")
	}

	if len(flags) > 0 {
		issue := &models.Issue{
			Type:           models.IssueTypeQuality,
			FileID:         fileID,
			Filename:       filename,
			Flags:          flags,
			Action:         models.ActionFlagForReview,
			Confidence:     models.ConfidenceHigh,
			Recommendation: "Manual review or file replacement needed",
			DetectedAt:     time.Now(),
		}
		d.approvals.Submit(issue)

		d.logger.Info().
			Str("file_id", fileID).
			Str("filename", filename).
			Strs("flags", flags).
			Msg("Quality issue queued for approval")
	}

	return &models.QualityResult{
		Found: len(flags) > 0,
		Flags: flags,
	}
}
