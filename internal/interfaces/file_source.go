package interfaces

import (
	"context"

	"github.com/ternarybob/lustro/internal/models"
)

// FileSource lists and fetches documents from a remote store. Binary and
// rich-document formats are exported to plain text by the source before
// reaching the pipeline; Fetch always yields decoded text.
type FileSource interface {
	// Name identifies the source in logs and document metadata.
	Name() string

	// List returns up to maxCount file descriptors in source order.
	List(ctx context.Context, maxCount int) ([]models.FileInfo, error)

	// Fetch downloads one file and returns its decoded text content.
	Fetch(ctx context.Context, fileID string) (*models.FileContent, error)
}
