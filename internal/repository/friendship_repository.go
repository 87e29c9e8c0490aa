package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type sqlxFriendshipRepository struct {
	db *sqlx.DB
}

// NewSQLXFriendshipRepository creates a friendship repository.
func NewSQLXFriendshipRepository(db *sqlx.DB) domain.FriendshipRepository {
	return &sqlxFriendshipRepository{db: db}
}

func toDomainFriendship(m *models.Friendship) *domain.Friendship {
	return &domain.Friendship{
		ID:        m.ID,
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		Accepted:  m.Accepted,
		CreatedAt: m.CreatedAt,
	}
}

func (r *sqlxFriendshipRepository) CreateFriendship(ctx context.Context, f *domain.Friendship) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	query := `INSERT INTO friendships (id, user1_id, user2_id, accepted, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, f.ID, f.User1ID, f.User2ID, f.Accepted, f.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.NewConflictError("Friendship already exists")
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *sqlxFriendshipRepository) GetFriendship(ctx context.Context, a, b string) (*domain.Friendship, error) {
	var m models.Friendship
	query := `SELECT id, user1_id, user2_id, accepted, created_at FROM friendships
	          WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, a, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return toDomainFriendship(&m), nil
}

func (r *sqlxFriendshipRepository) AcceptFriendship(ctx context.Context, id string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE friendships SET accepted = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to accept friendship: %w", err)
	}
	return nil
}

func (r *sqlxFriendshipRepository) DeleteFriendship(ctx context.Context, id string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}

func (r *sqlxFriendshipRepository) ListFriendships(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	var rows []models.Friendship
	query := `SELECT id, user1_id, user2_id, accepted, created_at FROM friendships
	          WHERE user1_id = $1 OR user2_id = $1
	          ORDER BY created_at`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	out := make([]*domain.Friendship, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainFriendship(&rows[i]))
	}
	return out, nil
}

func (r *sqlxFriendshipRepository) DeleteFriendshipsByUser(ctx context.Context, userID string) (int64, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM friendships WHERE user1_id = $1 OR user2_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete friendships: %w", err)
	}
	return result.RowsAffected()
}
