package detectors

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// MaxPIISamples caps the literal matches recorded per pattern class.
const MaxPIISamples = 3

// piiPatterns are the fixed pattern classes scanned for. This is a heuristic
// first-pass layer, not a compliance-grade detector: no Luhn validation for
// card numbers, no locale-aware phone or SSN formats. False positives are
// surfaced to the human reviewer rather than suppressed.
var piiPatterns = map[string]*regexp.Regexp{
	"email":       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":       regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	"ssn":         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"credit_card": regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
}

// PIIDetector scans content for personally identifiable information shapes.
type PIIDetector struct {
	approvals interfaces.ApprovalService
	logger    arbor.ILogger
}

// NewPIIDetector creates a PII detector.
func NewPIIDetector(approvals interfaces.ApprovalService, logger arbor.ILogger) *PIIDetector {
	return &PIIDetector{
		approvals: approvals,
		logger:    logger,
	}
}

// DetectPII scans content against every pattern class. Classes with at least
// one match are reported with their count and up to MaxPIISamples literal
// samples; if anything matched, one PII_DETECTED issue is queued.
func (d *PIIDetector) DetectPII(content, fileID, filename string) *models.PIIResult {
	findings := make(map[string]models.PIIFinding)

	for class, pattern := range piiPatterns {
		matches := pattern.FindAllString(content, -1)
		if len(matches) == 0 {
			continue
		}
		samples := matches
		if len(samples) > MaxPIISamples {
			samples = samples[:MaxPIISamples]
		}
		findings[class] = models.PIIFinding{
			Count:   len(matches),
			Samples: samples,
		}
	}

	if len(findings) > 0 {
		classes := make([]string, 0, len(findings))
		for class := range findings {
			classes = append(classes, class)
		}
		sort.Strings(classes)

		issue := &models.Issue{
			Type:           models.IssueTypePII,
			FileID:         fileID,
			Filename:       filename,
			PIIFindings:    findings,
			Action:         models.ActionMarkSensitive,
			Confidence:     models.ConfidenceHigh,
			Recommendation: "Mark file as sensitive and restrict access",
			DetectedAt:     time.Now(),
		}
		d.approvals.Submit(issue)

		d.logger.Info().
			Str("file_id", fileID).
			Str("filename", filename).
			Str("classes", strings.Join(classes, ",")).
			Msg("PII issue queued for approval")
	}

	return &models.PIIResult{
		Found:           len(findings) > 0,
		Findings:        findings,
		PatternsChecked: patternClasses(),
	}
}

func patternClasses() []string {
	classes := make([]string, 0, len(piiPatterns))
	for class := range piiPatterns {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}
