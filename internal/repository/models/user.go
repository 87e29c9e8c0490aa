package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// User is a row of the users table. Favourites is aggregated from user_favourites.
type User struct {
	ID                   string         `db:"id"`
	AuthID               string         `db:"auth_id"`
	Username             string         `db:"username"`
	Email                string         `db:"email"`
	ProfilePic           string         `db:"profile_pic"`
	Theme                string         `db:"theme"`
	Status               string         `db:"status"`
	DeletionRequestedAt  sql.NullTime   `db:"deletion_requested_at"`
	DeletionScheduledFor sql.NullTime   `db:"deletion_scheduled_for"`
	DeletionMode         sql.NullString `db:"deletion_mode"`
	IsPlaceholder        bool           `db:"is_placeholder"`
	Favourites           pq.StringArray `db:"favourites"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

// Friendship is a row of the friendships table.
type Friendship struct {
	ID        string    `db:"id"`
	User1ID   string    `db:"user1_id"`
	User2ID   string    `db:"user2_id"`
	Accepted  bool      `db:"accepted"`
	CreatedAt time.Time `db:"created_at"`
}

// IdentityDeletion is a row of the identity_deletion_outbox table.
type IdentityDeletion struct {
	ID            string    `db:"id"`
	AuthID        string    `db:"auth_id"`
	Attempts      int       `db:"attempts"`
	LastError     string    `db:"last_error"`
	NextAttemptAt time.Time `db:"next_attempt_at"`
	CreatedAt     time.Time `db:"created_at"`
}
