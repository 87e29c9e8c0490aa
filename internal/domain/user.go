package domain

import (
	"context"
	"strings"
	"time"
)

// Placeholder account that inherits quizzes preserved by deleted users.
const (
	PlaceholderAuthID   = "deleted-user"
	PlaceholderUsername = "Deleted user"
	PlaceholderEmail    = "deleted@quiz.invalid"
)

// DefaultGracePeriod is the delay between scheduling a deletion and the sweep executing it.
const DefaultGracePeriod = 7 * 24 * time.Hour

// UserStatus is the persisted lifecycle status.
type UserStatus string

const (
	StatusActive          UserStatus = "active"
	StatusPendingDeletion UserStatus = "pending_deletion"
)

// DeletionMode decides what happens to the quizzes a deleted user created.
type DeletionMode string

const (
	ModeDeleteQuizzes   DeletionMode = "delete_quizzes"
	ModePreserveQuizzes DeletionMode = "preserve_quizzes"

	DefaultDeletionMode = ModeDeleteQuizzes
)

// ParseDeletionMode validates a client-supplied mode.
func ParseDeletionMode(s string) (DeletionMode, error) {
	switch m := DeletionMode(s); m {
	case ModeDeleteQuizzes, ModePreserveQuizzes:
		return m, nil
	}
	return "", NewInvalidInputError("Invalid deletion mode").WithContext("mode", s)
}

// Lifecycle is either Active or PendingDeletion. A pending status without a
// deletion record cannot be expressed.
type Lifecycle interface {
	Status() UserStatus
	isLifecycle()
}

// Active is the initial lifecycle state.
type Active struct{}

func (Active) Status() UserStatus { return StatusActive }
func (Active) isLifecycle()       {}

// PendingDeletion records a scheduled deletion.
type PendingDeletion struct {
	RequestedAt  time.Time
	ScheduledFor time.Time
	Mode         DeletionMode
}

func (PendingDeletion) Status() UserStatus { return StatusPendingDeletion }
func (PendingDeletion) isLifecycle()       {}

// NewPendingDeletion schedules a deletion gracePeriod after now.
func NewPendingDeletion(now time.Time, gracePeriod time.Duration, mode DeletionMode) PendingDeletion {
	return PendingDeletion{
		RequestedAt:  now,
		ScheduledFor: now.Add(gracePeriod),
		Mode:         mode,
	}
}

// Due reports whether the sweep should execute this deletion at now.
func (p PendingDeletion) Due(now time.Time) bool {
	return !p.ScheduledFor.After(now)
}

// User represents a domain user object
type User struct {
	ID            string
	AuthID        string
	Username      string
	Email         string
	ProfilePic    string
	Theme         string
	Lifecycle     Lifecycle
	Favourites    []string
	IsPlaceholder bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a new active User instance
func NewUser(id, authID, username, email string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		AuthID:    authID,
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Lifecycle: Active{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if u.AuthID == "" {
		errs = append(errs, NewMissingFieldError("auth_id"))
	}
	if strings.TrimSpace(u.Username) == "" {
		errs = append(errs, NewMissingFieldError("username"))
	}
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, NewMissingFieldError("email"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Status returns the lifecycle status, treating a nil lifecycle as active.
func (u *User) Status() UserStatus {
	if u.Lifecycle == nil {
		return StatusActive
	}
	return u.Lifecycle.Status()
}

// PendingDeletion returns the deletion record when the user is pending deletion.
func (u *User) PendingDeletion() (PendingDeletion, bool) {
	p, ok := u.Lifecycle.(PendingDeletion)
	return p, ok
}

// HasFavourite reports whether quizID is in the user's favourites.
func (u *User) HasFavourite(quizID string) bool {
	for _, id := range u.Favourites {
		if id == quizID {
			return true
		}
	}
	return false
}

// UserProfileUpdate carries optional profile changes; nil fields are left untouched.
type UserProfileUpdate struct {
	Username   *string
	ProfilePic *string
	Theme      *string
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByAuthID(ctx context.Context, authID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// LockUserByID loads the user and holds a row lock until the surrounding transaction ends.
	LockUserByID(ctx context.Context, userID string) (*User, error)
	UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*User, error)
	UpdateProfile(ctx context.Context, userID string, update UserProfileUpdate) (*User, error)
	// ScheduleDeletion moves an active, non-placeholder user to pending. It reports false when no row matched.
	ScheduleDeletion(ctx context.Context, userID string, pending PendingDeletion) (bool, error)
	// CancelDeletion moves a pending user identified by authID back to active. It reports false when no row matched.
	CancelDeletion(ctx context.Context, authID string) (bool, error)
	ListDueDeletions(ctx context.Context, now time.Time) ([]*User, error)
	EnsurePlaceholder(ctx context.Context) (*User, error)
	DeleteUser(ctx context.Context, userID string) (bool, error)

	AddFavourite(ctx context.Context, userID, quizID string) error
	RemoveFavourite(ctx context.Context, userID, quizID string) error
	// RemoveQuizzesFromAllFavourites pulls the quiz ids out of every user's favourites.
	RemoveQuizzesFromAllFavourites(ctx context.Context, quizIDs []string) error
}
