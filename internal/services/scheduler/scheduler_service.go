package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lustro/internal/services/pipeline"
)

// Service runs the batch pipeline on a cron schedule. Overlapping runs are
// skipped rather than queued.
type Service struct {
	pipeline *pipeline.Service
	cron     *cron.Cron
	logger   arbor.ILogger

	mu        sync.Mutex
	isRunning bool
	running   bool
}

// NewService creates a scheduler around the batch pipeline.
func NewService(p *pipeline.Service, logger arbor.ILogger) *Service {
	return &Service{
		pipeline: p,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start schedules periodic batch runs with the given cron expression
// (six fields, seconds first).
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if cronExpr == "" {
		cronExpr = "0 0 */6 * * *"
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runBatch); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("cron_expr", cronExpr).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) runBatch() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous batch still running, skipping scheduled run")
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	report, err := s.pipeline.ProcessAll(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled batch run failed")
		return
	}

	s.logger.Info().
		Int("processed", report.FilesProcessed).
		Int("skipped", report.FilesSkipped).
		Int("pending_issues", len(report.PendingIssues)).
		Msg("Scheduled batch run complete")
}
