package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// Google Workspace MIME types that need export to text.
const (
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeGoogleSlides = "application/vnd.google-apps.presentation"
	mimeFolder       = "application/vnd.google-apps.folder"

	exportMimeText = "text/plain"
	exportMimeCSV  = "text/csv"
)

// maxDownloadSize caps how much of any single file is read (5MB).
const maxDownloadSize = 5 * 1024 * 1024

// DriveSource lists and fetches files from a Google Drive account using a
// cached OAuth token.
type DriveSource struct {
	svc    *drive.Service
	logger arbor.ILogger
}

// NewDriveSource creates a Drive source from OAuth client credentials and a
// previously cached token file.
func NewDriveSource(ctx context.Context, cfg *common.DriveSourceConfig, logger arbor.ILogger) (interfaces.FileSource, error) {
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials %s: %w", cfg.CredentialsFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(credentials, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load drive token %s: %w", cfg.TokenFile, err)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveSource{
		svc:    svc,
		logger: logger,
	}, nil
}

func (s *DriveSource) Name() string {
	return "drive"
}

// List returns up to maxCount non-folder files from the Drive account.
func (s *DriveSource) List(ctx context.Context, maxCount int) ([]models.FileInfo, error) {
	call := s.svc.Files.List().
		Context(ctx).
		PageSize(int64(maxCount)).
		Q(fmt.Sprintf("mimeType != '%s' and trashed = false", mimeFolder)).
		Fields("files(id, name, mimeType, size, createdTime)")

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("drive file listing failed: %w", err)
	}

	files := make([]models.FileInfo, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, models.FileInfo{
			ID:          f.Id,
			Name:        f.Name,
			MimeType:    f.MimeType,
			SizeBytes:   f.Size,
			CreatedTime: f.CreatedTime,
		})
		if len(files) >= maxCount {
			break
		}
	}

	s.logger.Debug().Int("count", len(files)).Msg("Listed drive files")
	return files, nil
}

// Fetch downloads one file, exporting Google-native formats to plain text.
func (s *DriveSource) Fetch(ctx context.Context, fileID string) (*models.FileContent, error) {
	file, err := s.svc.Files.Get(fileID).Context(ctx).Fields("id, name, mimeType, size").Do()
	if err != nil {
		return nil, fmt.Errorf("drive metadata fetch for %s failed: %w", fileID, err)
	}

	content, mimeType, err := s.download(ctx, file)
	if err != nil {
		return nil, err
	}

	return &models.FileContent{
		Name:     file.Name,
		MimeType: mimeType,
		Content:  content,
	}, nil
}

func (s *DriveSource) download(ctx context.Context, file *drive.File) (string, string, error) {
	switch file.MimeType {
	case mimeGoogleDoc, mimeGoogleSlides:
		content, err := s.export(ctx, file.Id, exportMimeText)
		return content, exportMimeText, err
	case mimeGoogleSheet:
		content, err := s.export(ctx, file.Id, exportMimeCSV)
		return content, exportMimeCSV, err
	}

	resp, err := s.svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return "", "", fmt.Errorf("drive download for %s failed: %w", file.Id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return "", "", fmt.Errorf("failed to read drive content for %s: %w", file.Id, err)
	}
	return string(data), file.MimeType, nil
}

func (s *DriveSource) export(ctx context.Context, fileID, exportMime string) (string, error) {
	resp, err := s.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("drive export for %s failed: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read drive export for %s: %w", fileID, err)
	}
	return string(data), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return token, nil
}
