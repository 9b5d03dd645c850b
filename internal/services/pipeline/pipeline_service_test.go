package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
	"github.com/ternarybob/lustro/internal/services/approval"
	"github.com/ternarybob/lustro/internal/services/detectors"
	"github.com/ternarybob/lustro/internal/services/processor"
	"github.com/ternarybob/lustro/internal/services/sources"
	"github.com/ternarybob/lustro/internal/storage/badger"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// markerEmbedder maps content markers to fixed unit vectors so similarity
// between test documents is controlled exactly.
type markerEmbedder struct{}

func (m *markerEmbedder) GenerateEmbedding(ctx context.Context, text string) []float32 {
	switch {
	case strings.Contains(text, "alpha-original"):
		return []float32{1, 0, 0}
	case strings.Contains(text, "alpha-copy"):
		// cosine similarity of 0.95 against alpha-original
		return []float32{0.95, 0.312, 0}
	case strings.Contains(text, "gamma"):
		return []float32{0, 0, 1}
	}
	return []float32{0, 1, 0}
}

func (m *markerEmbedder) Dimension() int { return 3 }

func (m *markerEmbedder) IsAvailable(ctx context.Context) bool { return true }

type excerptSummarizer struct{}

func (s *excerptSummarizer) Summarize(ctx context.Context, text string) string {
	if len(text) > 50 {
		return text[:50]
	}
	return text
}

func testConfig(dir string) *common.Config {
	cfg := common.DefaultConfig()
	cfg.Source.Type = "local"
	cfg.Source.Local.Dir = dir
	return cfg
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestPipeline(t *testing.T, cfg *common.Config) (*Service, interfaces.ApprovalService, interfaces.StorageManager) {
	t.Helper()
	logger := createTestLogger()

	storage, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "lustro-test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	embedder := &markerEmbedder{}
	proc := processor.NewService(
		storage.ChunkStorage(), embedder, &excerptSummarizer{},
		cfg.Chunking.ChunkSize, cfg.Chunking.Overlap, logger,
	)

	approvals := approval.NewService(storage.AuditStorage(), logger)
	dupes := detectors.NewDuplicateDetector(
		storage.DocumentStorage(), embedder, approvals,
		cfg.Detection.DuplicateThreshold, cfg.Detection.NeighborLimit, logger,
	)
	pii := detectors.NewPIIDetector(approvals, logger)
	quality := detectors.NewQualityValidator(approvals, logger)

	source, err := sources.NewFileSource(context.Background(), cfg, logger)
	require.NoError(t, err)

	return NewService(source, proc, dupes, pii, quality, approvals, cfg, logger), approvals, storage
}

func TestProcessAll_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	// doc1: clean large document; doc2: near-duplicate of doc1; doc3: small
	// document carrying an SSN.
	writeTestFile(t, dir, "doc1.txt", "alpha-original "+strings.Repeat("shared body text ", 400))
	writeTestFile(t, dir, "doc2.txt", "alpha-copy "+strings.Repeat("shared body text ", 400))
	writeTestFile(t, dir, "doc3.txt", "gamma record for employee with ssn 123-45-6789 on file")

	pipe, approvals, storage := newTestPipeline(t, testConfig(dir))

	report, err := pipe.ProcessAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.FilesProcessed)
	assert.Equal(t, 0, report.FilesSkipped)
	require.Len(t, report.Files, 3)

	// Listing is sorted by path
	byName := map[string]models.FileReport{}
	for _, fr := range report.Files {
		byName[fr.Filename] = fr
	}

	// Large documents were chunked, the small one was not
	assert.True(t, byName["doc1.txt"].Chunked)
	assert.Greater(t, byName["doc1.txt"].ChunkCount, 1)
	assert.True(t, byName["doc2.txt"].Chunked)
	assert.False(t, byName["doc3.txt"].Chunked)

	// doc2 matched doc1 above the threshold; doc3 carries PII
	assert.Equal(t, 0, byName["doc1.txt"].Duplicates)
	assert.Equal(t, 1, byName["doc2.txt"].Duplicates)
	assert.True(t, byName["doc3.txt"].PIIFound)

	// One duplicate issue and one PII issue are pending
	require.Len(t, report.PendingIssues, 2)
	assert.Equal(t, 2, approvals.PendingCount())

	types := map[models.IssueType]bool{}
	for _, issue := range report.PendingIssues {
		types[issue.Type] = true
	}
	assert.True(t, types[models.IssueTypeDuplicate])
	assert.True(t, types[models.IssueTypePII])

	// All three documents landed in the similarity store
	stats, err := storage.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Greater(t, stats.TotalChunks, 0)
}

func TestProcessAll_DuplicateIssueDetail(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "alpha-original "+strings.Repeat("text ", 20))
	writeTestFile(t, dir, "b.txt", "alpha-copy "+strings.Repeat("text ", 20))

	pipe, approvals, _ := newTestPipeline(t, testConfig(dir))

	_, err := pipe.ProcessAll(context.Background())
	require.NoError(t, err)

	pending := approvals.ListPending()
	require.Len(t, pending, 1)

	issue := pending[0]
	assert.Equal(t, models.IssueTypeDuplicate, issue.Type)
	assert.Equal(t, "b.txt", issue.FileID)
	require.Len(t, issue.Duplicates, 1)
	assert.Equal(t, "a.txt", issue.Duplicates[0].FileID)
	assert.Equal(t, models.ConfidenceHigh, issue.Duplicates[0].Confidence)
	assert.InDelta(t, 95.0, issue.Duplicates[0].Similarity, 0.1)
}

func TestProcessAll_RespectsMaxFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		writeTestFile(t, dir, name, "beta harmless document content here")
	}

	cfg := testConfig(dir)
	cfg.Pipeline.MaxFiles = 2
	pipe, _, _ := newTestPipeline(t, cfg)

	report, err := pipe.ProcessAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesProcessed)
	assert.Len(t, report.Files, 2)
}

func TestProcessAll_ConcurrentRun(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeTestFile(t, dir, string(rune('a'+i))+".txt", "beta harmless document content here")
	}

	cfg := testConfig(dir)
	cfg.Pipeline.Concurrency = 3
	pipe, _, _ := newTestPipeline(t, cfg)

	report, err := pipe.ProcessAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, report.FilesProcessed)
}

func TestProcessAll_EmptySource(t *testing.T) {
	pipe, _, _ := newTestPipeline(t, testConfig(t.TempDir()))

	report, err := pipe.ProcessAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.FilesProcessed)
	assert.Empty(t, report.PendingIssues)
}

func TestProcessAll_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "beta content that will never be processed")

	pipe, _, _ := newTestPipeline(t, testConfig(dir))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipe.ProcessAll(ctx)
	// Listing fails on a dead context before any file work starts
	assert.Error(t, err)
}
