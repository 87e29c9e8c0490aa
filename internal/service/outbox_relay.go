package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/metrics"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const (
	outboxBaseBackoff = 30 * time.Second
	outboxMaxBackoff  = 6 * time.Hour
	// OutboxReportAfter is the failed attempt count at which a stuck provider
	// deletion is reported. The row keeps retrying at the capped backoff.
	OutboxReportAfter = 20
)

// OutboxBackoff returns the delay before the next delivery after the given
// number of failed attempts.
func OutboxBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := outboxBaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= outboxMaxBackoff {
			return outboxMaxBackoff
		}
	}
	return d
}

// RelayResult summarises one RelayDue pass.
type RelayResult struct {
	Delivered int
	Failed    int
}

// OutboxRelay delivers pending identity provider deletions.
type OutboxRelay interface {
	// Deliver makes one attempt for authID. attempts is the number of failures so far.
	Deliver(ctx context.Context, authID string, attempts int, now time.Time) error
	RelayDue(ctx context.Context, now time.Time) (RelayResult, error)
}

type outboxRelayImpl struct {
	outbox    domain.IdentityOutbox
	identity  domain.IdentityAdmin
	recorder  metrics.Recorder
	batchSize int
	report    func(authID string, attempts int, err error)
}

// NewOutboxRelay creates a relay that drains at most batchSize rows per pass.
func NewOutboxRelay(outbox domain.IdentityOutbox, identity domain.IdentityAdmin, recorder metrics.Recorder, batchSize int) OutboxRelay {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &outboxRelayImpl{
		outbox:    outbox,
		identity:  identity,
		recorder:  recorder,
		batchSize: batchSize,
		report:    reportToSentry,
	}
}

func reportToSentry(authID string, attempts int, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "identity_outbox")
		scope.SetTag("auth_id", authID)
		scope.SetTag("attempts", strconv.Itoa(attempts))
		sentry.CaptureException(err)
	})
}

func (r *outboxRelayImpl) Deliver(ctx context.Context, authID string, attempts int, now time.Time) error {
	log := logger.Get().With(zap.String("auth_id", authID))

	err := r.identity.DeleteAccount(ctx, authID)
	if err == nil || errors.Is(err, domain.ErrIdentityAccountNotFound) {
		if err != nil {
			r.recorder.RecordIdentityCleanup(metrics.ResultNotFound)
		} else {
			r.recorder.RecordIdentityCleanup(metrics.ResultSuccess)
		}
		if mErr := r.outbox.MarkDelivered(ctx, authID); mErr != nil {
			return fmt.Errorf("failed to mark identity deletion delivered: %w", mErr)
		}
		log.Info("Identity provider account deleted", zap.Int("previous_attempts", attempts))
		return nil
	}

	failed := attempts + 1
	r.recorder.RecordIdentityCleanup(metrics.ResultFailure)
	log.Warn("Identity provider deletion failed", zap.Error(err), zap.Int("attempts", failed))
	if failed == OutboxReportAfter {
		r.report(authID, failed, err)
	}
	if mErr := r.outbox.MarkFailed(ctx, authID, err.Error(), now.Add(OutboxBackoff(failed))); mErr != nil {
		return fmt.Errorf("failed to record identity deletion failure: %w", mErr)
	}
	return domain.NewExternalDependencyError("Identity provider deletion failed", err)
}

func (r *outboxRelayImpl) RelayDue(ctx context.Context, now time.Time) (RelayResult, error) {
	var res RelayResult
	due, err := r.outbox.ListDue(ctx, now, r.batchSize)
	if err != nil {
		return res, fmt.Errorf("failed to list due identity deletions: %w", err)
	}
	for _, d := range due {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := r.Deliver(ctx, d.AuthID, d.Attempts, now); err != nil {
			res.Failed++
			continue
		}
		res.Delivered++
	}
	if len(due) > 0 {
		logger.Get().Info("Identity outbox relayed",
			zap.Int("delivered", res.Delivered),
			zap.Int("failed", res.Failed))
	}
	return res, nil
}
