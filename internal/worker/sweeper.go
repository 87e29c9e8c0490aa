// Package worker runs the periodic account deletion sweep.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/cache"
	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SweepJob names the lease shared by every instance running the sweeper.
const SweepJob = "deletion-sweep"

// Sweeper executes due deletions and retries pending identity cleanups on a
// fixed interval. A redis lease keeps concurrent instances from sweeping the
// same interval twice.
type Sweeper struct {
	sweep   service.SweepService
	relay   service.OutboxRelay
	locker  domain.Locker
	lockTTL time.Duration

	now      func() time.Time
	newToken func() string
}

// NewSweeper creates a Sweeper. locker may be nil, in which case every call runs.
func NewSweeper(sweep service.SweepService, relay service.OutboxRelay, locker domain.Locker, lockTTL time.Duration) *Sweeper {
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &Sweeper{
		sweep:    sweep,
		relay:    relay,
		locker:   locker,
		lockTTL:  lockTTL,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Start runs once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.Get()
	log.Info("Deletion sweeper started", zap.Duration("interval", interval))

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Deletion sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		logger.Get().Error("Deletion sweep cycle failed", zap.Error(err))
	}
}

// RunOnce performs one sweep and one outbox relay pass if the lease can be
// taken. ran is false when another instance holds the lease.
func (s *Sweeper) RunOnce(ctx context.Context) (ran bool, err error) {
	log := logger.Get()

	if s.locker != nil {
		key := cache.JobLockKey(SweepJob)
		token := s.newToken()
		acquired, err := s.locker.TryLock(ctx, key, token, s.lockTTL)
		if err != nil {
			return false, fmt.Errorf("failed to acquire sweep lease: %w", err)
		}
		if !acquired {
			log.Debug("Sweep lease held by another instance")
			return false, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
				log.Warn("Failed to release sweep lease", zap.Error(err))
			}
		}()
	}

	now := s.now()
	var errs []error

	result, sweepErr := s.sweep.Run(ctx, now)
	if sweepErr != nil {
		errs = append(errs, fmt.Errorf("sweep: %w", sweepErr))
	} else if result.Processed > 0 || result.Failed > 0 {
		log.Info("Deletion sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed))
	}

	// Cleanups enqueued by this sweep are already attempted once; the relay
	// only picks up rows whose backoff has elapsed.
	relayed, relayErr := s.relay.RelayDue(ctx, now)
	if relayErr != nil {
		errs = append(errs, fmt.Errorf("outbox relay: %w", relayErr))
	} else if relayed.Delivered > 0 || relayed.Failed > 0 {
		log.Info("Identity cleanup relay finished",
			zap.Int("delivered", relayed.Delivered),
			zap.Int("failed", relayed.Failed))
	}

	return true, errors.Join(errs...)
}
