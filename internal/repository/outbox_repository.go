package repository

import (
	"context"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"
	"quizhub/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxIdentityOutbox struct {
	db *sqlx.DB
}

// NewSQLXIdentityOutbox creates the identity deletion outbox repository.
func NewSQLXIdentityOutbox(db *sqlx.DB) domain.IdentityOutbox {
	return &sqlxIdentityOutbox{db: db}
}

// Enqueue records a pending provider deletion. Re-enqueueing an auth id is a no-op.
func (r *sqlxIdentityOutbox) Enqueue(ctx context.Context, authID string, at time.Time) error {
	query := `INSERT INTO identity_deletion_outbox (id, auth_id, attempts, last_error, next_attempt_at, created_at)
	          VALUES ($1, $2, 0, '', $3, $3)
	          ON CONFLICT (auth_id) DO NOTHING`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, util.NewULID(), authID, at); err != nil {
		return fmt.Errorf("failed to enqueue identity deletion: %w", err)
	}
	return nil
}

func (r *sqlxIdentityOutbox) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.IdentityDeletion, error) {
	var rows []models.IdentityDeletion
	query := `SELECT id, auth_id, attempts, last_error, next_attempt_at, created_at
	          FROM identity_deletion_outbox
	          WHERE next_attempt_at <= $1
	          ORDER BY next_attempt_at
	          LIMIT $2`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list due identity deletions: %w", err)
	}
	out := make([]*domain.IdentityDeletion, 0, len(rows))
	for _, m := range rows {
		out = append(out, &domain.IdentityDeletion{
			ID:            m.ID,
			AuthID:        m.AuthID,
			Attempts:      m.Attempts,
			LastError:     m.LastError,
			NextAttemptAt: m.NextAttemptAt,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

func (r *sqlxIdentityOutbox) MarkDelivered(ctx context.Context, authID string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM identity_deletion_outbox WHERE auth_id = $1`, authID); err != nil {
		return fmt.Errorf("failed to mark identity deletion delivered: %w", err)
	}
	return nil
}

func (r *sqlxIdentityOutbox) MarkFailed(ctx context.Context, authID string, lastError string, nextAttemptAt time.Time) error {
	query := `UPDATE identity_deletion_outbox
	          SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3
	          WHERE auth_id = $1`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, authID, lastError, nextAttemptAt); err != nil {
		return fmt.Errorf("failed to mark identity deletion failed: %w", err)
	}
	return nil
}
