package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// textExtensions are treated as decodable document content; everything else
// in the repository tree is skipped.
var textExtensions = map[string]bool{
	".md": true, ".txt": true, ".rst": true, ".adoc": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".csv": true, ".html": true, ".xml": true,
}

// GitHubSource lists and fetches text documents from one repository ref.
type GitHubSource struct {
	client *github.Client
	owner  string
	repo   string
	ref    string
	logger arbor.ILogger
}

// NewGitHubSource creates a source over a single repository. An empty token
// falls back to unauthenticated access with its lower rate limits.
func NewGitHubSource(cfg *common.GitHubSourceConfig, logger arbor.ILogger) (interfaces.FileSource, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github source requires owner and repo")
	}

	var client *github.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = github.NewClient(nil)
	}

	ref := cfg.Ref
	if ref == "" {
		ref = "main"
	}

	return &GitHubSource{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		ref:    ref,
		logger: logger,
	}, nil
}

func (s *GitHubSource) Name() string {
	return "github"
}

// List walks the repository tree and returns up to maxCount text documents.
// File IDs are repository paths.
func (s *GitHubSource) List(ctx context.Context, maxCount int) ([]models.FileInfo, error) {
	tree, _, err := s.client.Git.GetTree(ctx, s.owner, s.repo, s.ref, true)
	if err != nil {
		return nil, fmt.Errorf("github tree listing for %s/%s@%s failed: %w", s.owner, s.repo, s.ref, err)
	}

	var files []models.FileInfo
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" || !isTextPath(entry.GetPath()) {
			continue
		}
		files = append(files, models.FileInfo{
			ID:        entry.GetPath(),
			Name:      entry.GetPath(),
			MimeType:  "text/plain",
			SizeBytes: int64(entry.GetSize()),
		})
		if len(files) >= maxCount {
			break
		}
	}

	s.logger.Debug().
		Str("repo", s.owner+"/"+s.repo).
		Int("count", len(files)).
		Msg("Listed github files")

	return files, nil
}

// Fetch downloads one file's decoded content by repository path.
func (s *GitHubSource) Fetch(ctx context.Context, fileID string) (*models.FileContent, error) {
	content, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, fileID,
		&github.RepositoryContentGetOptions{Ref: s.ref})
	if err != nil {
		return nil, fmt.Errorf("github content fetch for %s failed: %w", fileID, err)
	}
	if content == nil {
		return nil, fmt.Errorf("github path %s is not a file", fileID)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode github content for %s: %w", fileID, err)
	}

	return &models.FileContent{
		Name:     fileID,
		MimeType: "text/plain",
		Content:  decoded,
	}, nil
}

func isTextPath(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return false
	}
	return textExtensions[strings.ToLower(path[idx:])]
}
