package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// LocalSource serves text documents from a directory on disk. File IDs are
// paths relative to the source directory.
type LocalSource struct {
	dir    string
	logger arbor.ILogger
}

// NewLocalSource creates a source over a local directory.
func NewLocalSource(cfg *common.LocalSourceConfig, logger arbor.ILogger) (interfaces.FileSource, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("local source directory %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local source path %s is not a directory", cfg.Dir)
	}

	return &LocalSource{
		dir:    cfg.Dir,
		logger: logger,
	}, nil
}

func (s *LocalSource) Name() string {
	return "local"
}

// List walks the directory tree and returns up to maxCount text files,
// sorted by relative path for deterministic ordering.
func (s *LocalSource) List(ctx context.Context, maxCount int) ([]models.FileInfo, error) {
	var files []models.FileInfo

	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !isTextPath(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}

		files = append(files, models.FileInfo{
			ID:          rel,
			Name:        rel,
			MimeType:    "text/plain",
			SizeBytes:   info.Size(),
			CreatedTime: info.ModTime().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local source listing failed: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	if len(files) > maxCount {
		files = files[:maxCount]
	}

	s.logger.Debug().Str("dir", s.dir).Int("count", len(files)).Msg("Listed local files")
	return files, nil
}

// Fetch reads one file relative to the source directory.
func (s *LocalSource) Fetch(ctx context.Context, fileID string) (*models.FileContent, error) {
	path := filepath.Join(s.dir, filepath.Clean(fileID))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("local file read for %s failed: %w", fileID, err)
	}

	return &models.FileContent{
		Name:     fileID,
		MimeType: "text/plain",
		Content:  string(data),
	}, nil
}
