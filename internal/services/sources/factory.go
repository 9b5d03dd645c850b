package sources

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
)

// NewFileSource builds the configured file source.
func NewFileSource(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (interfaces.FileSource, error) {
	switch cfg.Source.Type {
	case "drive":
		return NewDriveSource(ctx, &cfg.Source.Drive, logger)
	case "github":
		return NewGitHubSource(&cfg.Source.GitHub, logger)
	case "local":
		return NewLocalSource(&cfg.Source.Local, logger)
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Source.Type)
	}
}
