// Package chunker splits document text into overlapping fixed-size windows.
// Chunking is a pure function: identical (content, chunk size, overlap)
// inputs always reproduce identical chunk boundaries.
package chunker

import (
	"fmt"

	"github.com/ternarybob/lustro/internal/models"
)

// Chunk splits content into a deterministic sequence of sliding windows.
// Each chunk spans [start, start+chunkSize) clipped to the content length;
// the next window starts chunkSize-overlap characters later. The last chunk
// may be shorter than chunkSize; empty content produces no chunks.
//
// overlap >= chunkSize would make the window stop advancing, so it is
// rejected rather than looped.
func Chunk(content string, chunkSize, overlap int) ([]models.DocumentChunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap (%d) must be less than chunk size (%d): the window would never advance", overlap, chunkSize)
	}

	var chunks []models.DocumentChunk
	step := chunkSize - overlap

	for start := 0; start < len(content); start += step {
		end := start + chunkSize
		if end > len(content) {
			end = len(content)
		}

		chunks = append(chunks, models.DocumentChunk{
			Index:    len(chunks),
			StartPos: start,
			EndPos:   end,
			Text:     content[start:end],
		})

		// A window that reached the end leaves nothing uncovered; a further
		// chunk would sit entirely inside this one's tail.
		if end == len(content) {
			break
		}
	}

	return chunks, nil
}

// Count returns the number of chunks Chunk would emit for a content length,
// without materializing them: ceil((contentLen - overlap) / (chunkSize - overlap))
// for content longer than the overlap, 1 otherwise.
func Count(contentLen, chunkSize, overlap int) int {
	if contentLen <= 0 || chunkSize <= 0 || overlap >= chunkSize {
		return 0
	}
	if contentLen <= overlap {
		return 1
	}
	step := chunkSize - overlap
	return (contentLen - overlap + step - 1) / step
}
