package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"
	"quizhub/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `u.id, u.auth_id, u.username, u.email, u.profile_pic, u.theme, u.status,
	u.deletion_requested_at, u.deletion_scheduled_for, u.deletion_mode, u.is_placeholder,
	ARRAY(SELECT f.quiz_id FROM user_favourites f WHERE f.user_id = u.id ORDER BY f.created_at) AS favourites,
	u.created_at, u.updated_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	u := &domain.User{
		ID:            m.ID,
		AuthID:        m.AuthID,
		Username:      m.Username,
		Email:         m.Email,
		ProfilePic:    m.ProfilePic,
		Theme:         m.Theme,
		Lifecycle:     domain.Active{},
		Favourites:    []string(m.Favourites),
		IsPlaceholder: m.IsPlaceholder,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if u.Favourites == nil {
		u.Favourites = []string{}
	}
	if domain.UserStatus(m.Status) == domain.StatusPendingDeletion {
		u.Lifecycle = domain.PendingDeletion{
			RequestedAt:  m.DeletionRequestedAt.Time,
			ScheduledFor: m.DeletionScheduledFor.Time,
			Mode:         domain.DeletionMode(m.DeletionMode.String),
		}
	}
	return u
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	m := &models.User{
		ID:            u.ID,
		AuthID:        u.AuthID,
		Username:      u.Username,
		Email:         u.Email,
		ProfilePic:    u.ProfilePic,
		Theme:         u.Theme,
		Status:        string(u.Status()),
		IsPlaceholder: u.IsPlaceholder,
		Favourites:    pq.StringArray(u.Favourites),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if p, ok := u.PendingDeletion(); ok {
		m.DeletionRequestedAt = util.TimeToNullTime(p.RequestedAt)
		m.DeletionScheduledFor = util.TimeToNullTime(p.ScheduledFor)
		m.DeletionMode = util.StringToNullString(string(p.Mode))
	}
	return m
}

// CreateUser inserts a new user. Duplicate auth ids and usernames become conflict errors.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, auth_id, username, email, profile_pic, theme, status,
	              deletion_requested_at, deletion_scheduled_for, deletion_mode, is_placeholder, created_at, updated_at)
	          VALUES (:id, :auth_id, :username, :email, :profile_pic, :theme, :status,
	              :deletion_requested_at, :deletion_scheduled_for, :deletion_mode, :is_placeholder, :created_at, :updated_at)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "users_auth_id_key" {
				return domain.NewConflictError("User already exists")
			}
			return domain.NewConflictError("Username already taken")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, where string, args ...interface{}) (*domain.User, error) {
	var m models.User
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by internal id. It returns (nil, nil) when absent.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := r.getOne(ctx, `u.id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetUserByAuthID retrieves a user by identity-provider id.
func (r *sqlxUserRepository) GetUserByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	u, err := r.getOne(ctx, `u.auth_id = $1`, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by auth_id: %w", err)
	}
	return u, nil
}

// GetUserByUsername matches real users case-insensitively.
func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := r.getOne(ctx, `lower(u.username) = lower($1) AND NOT u.is_placeholder`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

// LockUserByID must be called inside a transaction.
func (r *sqlxUserRepository) LockUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := r.getOne(ctx, `u.id = $1 FOR UPDATE OF u`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return u, nil
}

func (r *sqlxUserRepository) UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (
	              SELECT 1 FROM users
	              WHERE lower(username) = lower($1) AND NOT is_placeholder AND id <> $2)`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &taken, query, strings.TrimSpace(username), excludeUserID); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return taken, nil
}

// escapeLike escapes LIKE metacharacters so the query is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchUsers matches real users whose username contains query, ignoring case.
func (r *sqlxUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	var rows []models.User
	q := `SELECT ` + userColumns + ` FROM users u
	      WHERE NOT u.is_placeholder AND u.username ILIKE '%' || $1 || '%'
	      ORDER BY lower(u.username)
	      LIMIT $2`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, q, escapeLike(query), limit); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toDomainUser(&rows[i]))
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of update. It returns (nil, nil) when no real user matched.
func (r *sqlxUserRepository) UpdateProfile(ctx context.Context, userID string, update domain.UserProfileUpdate) (*domain.User, error) {
	var sets []string
	args := []interface{}{userID}
	add := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if update.Username != nil {
		add("username", *update.Username)
	}
	if update.ProfilePic != nil {
		add("profile_pic", *update.ProfilePic)
	}
	if update.Theme != nil {
		add("theme", *update.Theme)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 AND NOT is_placeholder`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, domain.NewConflictError("Username already taken")
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	ok, err := rowsAffected(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return r.GetUserByID(ctx, userID)
}

func (r *sqlxUserRepository) ScheduleDeletion(ctx context.Context, userID string, pending domain.PendingDeletion) (bool, error) {
	query := `UPDATE users
	          SET status = 'pending_deletion', deletion_requested_at = $2, deletion_scheduled_for = $3,
	              deletion_mode = $4, updated_at = $2
	          WHERE id = $1 AND status = 'active' AND NOT is_placeholder`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, pending.RequestedAt, pending.ScheduledFor, string(pending.Mode))
	if err != nil {
		return false, fmt.Errorf("failed to schedule deletion: %w", err)
	}
	return rowsAffected(result)
}

func (r *sqlxUserRepository) CancelDeletion(ctx context.Context, authID string) (bool, error) {
	query := `UPDATE users
	          SET status = 'active', deletion_requested_at = NULL, deletion_scheduled_for = NULL,
	              deletion_mode = NULL, updated_at = now()
	          WHERE auth_id = $1 AND status = 'pending_deletion'`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, authID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel deletion: %w", err)
	}
	return rowsAffected(result)
}

// ListDueDeletions returns real users whose scheduled deletion time is at or before now.
func (r *sqlxUserRepository) ListDueDeletions(ctx context.Context, now time.Time) ([]*domain.User, error) {
	var rows []models.User
	query := `SELECT ` + userColumns + ` FROM users u
	          WHERE u.status = 'pending_deletion' AND u.deletion_scheduled_for <= $1 AND NOT u.is_placeholder
	          ORDER BY u.deletion_scheduled_for`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("failed to list due deletions: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toDomainUser(&rows[i]))
	}
	return users, nil
}

// EnsurePlaceholder creates the placeholder user if absent. Concurrent callers get the same row.
func (r *sqlxUserRepository) EnsurePlaceholder(ctx context.Context) (*domain.User, error) {
	query := `INSERT INTO users (id, auth_id, username, email, status, is_placeholder, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, 'active', TRUE, now(), now())
	          ON CONFLICT (auth_id) DO UPDATE SET is_placeholder = TRUE
	          RETURNING id`
	var id string
	err := GetExecutor(ctx, r.db).GetContext(ctx, &id, query,
		util.NewULID(), domain.PlaceholderAuthID, domain.PlaceholderUsername, domain.PlaceholderEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure placeholder user: %w", err)
	}
	return &domain.User{
		ID:            id,
		AuthID:        domain.PlaceholderAuthID,
		Username:      domain.PlaceholderUsername,
		Email:         domain.PlaceholderEmail,
		Lifecycle:     domain.Active{},
		Favourites:    []string{},
		IsPlaceholder: true,
	}, nil
}

// DeleteUser hard-deletes a real user. The placeholder row is never removed.
func (r *sqlxUserRepository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND NOT is_placeholder`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rowsAffected(result)
}

// AddFavourite is a no-op when the quiz is already a favourite.
func (r *sqlxUserRepository) AddFavourite(ctx context.Context, userID, quizID string) error {
	query := `INSERT INTO user_favourites (user_id, quiz_id, created_at) VALUES ($1, $2, now())
	          ON CONFLICT (user_id, quiz_id) DO NOTHING`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, quizID); err != nil {
		return fmt.Errorf("failed to add favourite: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) RemoveFavourite(ctx context.Context, userID, quizID string) error {
	query := `DELETE FROM user_favourites WHERE user_id = $1 AND quiz_id = $2`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, userID, quizID); err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) RemoveQuizzesFromAllFavourites(ctx context.Context, quizIDs []string) error {
	if len(quizIDs) == 0 {
		return nil
	}
	query := `DELETE FROM user_favourites WHERE quiz_id = ANY($1)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, pq.Array(quizIDs)); err != nil {
		return fmt.Errorf("failed to remove quizzes from favourites: %w", err)
	}
	return nil
}
