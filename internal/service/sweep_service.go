package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepOutcome is the result of executing one due deletion.
type SweepOutcome struct {
	UserID string
	// Skipped is set when the user was no longer due once locked.
	Skipped bool
	Err     error
}

// SweepResult reports a sweep run. Processed counts successful deletions only.
type SweepResult struct {
	Processed int
	Failed    int
	Skipped   int
	Outcomes  []SweepOutcome
}

// SweepService executes every pending deletion whose grace period has elapsed.
type SweepService interface {
	Run(ctx context.Context, now time.Time) (*SweepResult, error)
}

type sweepServiceImpl struct {
	users       domain.UserRepository
	deletion    DeletionService
	recorder    metrics.Recorder
	concurrency int
}

// NewSweepService creates a sweep that runs up to concurrency deletions at once.
func NewSweepService(users domain.UserRepository, deletion DeletionService, recorder metrics.Recorder, concurrency int) SweepService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &sweepServiceImpl{
		users:       users,
		deletion:    deletion,
		recorder:    recorder,
		concurrency: concurrency,
	}
}

// Run never retries inside a pass; a failed user is selected again next time.
func (s *sweepServiceImpl) Run(ctx context.Context, now time.Time) (*SweepResult, error) {
	start := time.Now()
	due, err := s.users.ListDueDeletions(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due deletions: %w", err)
	}

	result := &SweepResult{Outcomes: make([]SweepOutcome, len(due))}
	if len(due) == 0 {
		s.recorder.RecordSweep(0, 0, time.Since(start))
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, user := range due {
		g.Go(func() error {
			deleted, err := s.deletion.ExecuteDue(gctx, user.ID, now)
			mu.Lock()
			result.Outcomes[i] = SweepOutcome{UserID: user.ID, Skipped: err == nil && !deleted, Err: err}
			switch {
			case err != nil:
				result.Failed++
			case deleted:
				result.Processed++
			default:
				result.Skipped++
			}
			mu.Unlock()
			if err != nil {
				logger.Get().Warn("Scheduled deletion failed", zap.String("user_id", user.ID), zap.Error(err))
			}
			// Per-user failures never cancel the rest of the sweep.
			return nil
		})
	}
	_ = g.Wait()

	s.recorder.RecordSweep(result.Processed, result.Failed, time.Since(start))
	logger.Get().Info("Deletion sweep finished",
		zap.Int("due", len(due)),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
