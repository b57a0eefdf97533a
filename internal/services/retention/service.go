// Package retention periodically deletes stored merged documents older than
// the configured max age.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

const defaultSchedule = "0 0 3 * * *"

// Service runs document cleanup on a cron schedule
type Service struct {
	documents interfaces.DocumentStorage
	maxAge    time.Duration
	cron      *cron.Cron
	now       func() time.Time
	logger    arbor.ILogger
}

// NewService creates a retention service from [retention]
func NewService(documents interfaces.DocumentStorage, config common.RetentionConfig, logger arbor.ILogger) (*Service, error) {
	maxAge, err := config.MaxAgeDuration()
	if err != nil {
		return nil, err
	}
	return &Service{
		documents: documents,
		maxAge:    maxAge,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
		logger:    logger,
	}, nil
}

// Start schedules cleanup runs
func (s *Service) Start(schedule string) error {
	if schedule == "" {
		schedule = defaultSchedule
	}
	if err := common.ValidateSchedule(schedule); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(schedule, s.runScheduled); err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Dur("max_age", s.maxAge).
		Msg("Document retention scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running cleanup to finish
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Document retention scheduler stopped")
}

// RunNow deletes expired documents immediately and returns how many were removed
func (s *Service) RunNow(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.maxAge)
	removed, err := s.documents.DeleteDocumentsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired documents: %w", err)
	}

	s.logger.Info().
		Int("removed", removed).
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Msg("Expired documents removed")
	return removed, nil
}

func (s *Service) runScheduled() {
	defer func() {
		if p := common.RecoverPanic(recover()); p != nil {
			s.logger.Error().Str("panic", p.Error()).Str("stack", p.Stack).Msg("Recovered from panic in retention run")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.RunNow(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled retention failed")
	}
}
