package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document represents one file fetched from a file source, normalized to
// decoded text. Documents are upserted into the similarity store together
// with a document-level embedding during duplicate detection.
type Document struct {
	// Identity
	FileID   string `json:"file_id"` // Unique source file identifier
	Filename string `json:"filename"`

	// Content is a bounded prefix of the source text (see duplicate detector's
	// stored-content limit); the full text is never persisted
	Content   string `json:"content"`
	SizeBytes int64  `json:"size_bytes"`

	// Embedding is the document-level vector over a bounded content prefix
	Embedding []float32 `json:"embedding"`

	// Metadata holds source-provided attributes (mime type, created time, source name)
	Metadata map[string]interface{} `json:"metadata"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentChunk is one sliding-window segment of a document, carrying the
// derived summary and the embedding computed over that summary.
type DocumentChunk struct {
	FileID string `json:"file_id"`
	Index  int    `json:"index"` // zero-based, unique within the document

	// Offsets into the parent content; EndPos is clipped to content length
	StartPos int `json:"start_pos"`
	EndPos   int `json:"end_pos"`

	Text      string    `json:"text"`
	Summary   string    `json:"summary"`
	Embedding []float32 `json:"embedding"`

	// Metadata snapshots the enclosing document (filename, offsets)
	Metadata map[string]interface{} `json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the storage key for a chunk, unique by (file id, chunk index).
func (c *DocumentChunk) Key() string {
	return ChunkKey(c.FileID, c.Index)
}

// ChunkKey builds the composite chunk storage key.
func ChunkKey(fileID string, index int) string {
	return fmt.Sprintf("%s#%06d", fileID, index)
}

// FileInfo describes one entry returned by a file source listing.
type FileInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	CreatedTime string `json:"created_time"`
}

// FileContent is the decoded text payload of one fetched file.
type FileContent struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  string `json:"content"`
}

// SourceMetadata converts file info to the metadata map stored on documents.
func (f *FileInfo) SourceMetadata(source string) map[string]interface{} {
	return map[string]interface{}{
		"source":       source,
		"mime_type":    f.MimeType,
		"created_time": f.CreatedTime,
	}
}

// DocumentStats summarizes the similarity store contents.
type DocumentStats struct {
	TotalDocuments int       `json:"total_documents"`
	TotalChunks    int       `json:"total_chunks"`
	LastUpdated    time.Time `json:"last_updated"`
}

// ToJSON renders a document as indented JSON for diagnostics.
func (d *Document) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
