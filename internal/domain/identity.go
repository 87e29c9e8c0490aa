package domain

import (
	"context"
	"errors"
	"time"
)

// ErrIdentityAccountNotFound is returned by IdentityAdmin when the provider has no such account.
var ErrIdentityAccountNotFound = errors.New("identity provider account not found")

// IdentityClaims are the verified claims of an identity-provider token.
type IdentityClaims struct {
	AuthID string
	Email  string
}

// TokenVerifier verifies opaque identity tokens issued by the provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

// IdentityAccount is a provider-side account record.
type IdentityAccount struct {
	AuthID string
	Email  string
}

// IdentityAccountPage is one page of a provider account listing.
type IdentityAccountPage struct {
	Accounts      []IdentityAccount
	NextPageToken string
}

// IdentityAdmin manages provider accounts by provider-assigned id.
type IdentityAdmin interface {
	DeleteAccount(ctx context.Context, authID string) error
	DeleteAccounts(ctx context.Context, authIDs []string) error
	ListAccounts(ctx context.Context, pageSize int, pageToken string) (*IdentityAccountPage, error)
}

// IdentityDeletion is a durable pending removal of a provider account.
type IdentityDeletion struct {
	ID            string
	AuthID        string
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	CreatedAt     time.Time
}

// IdentityOutbox stores provider deletions that must eventually happen.
type IdentityOutbox interface {
	Enqueue(ctx context.Context, authID string, at time.Time) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]*IdentityDeletion, error)
	MarkDelivered(ctx context.Context, authID string) error
	MarkFailed(ctx context.Context, authID string, lastError string, nextAttemptAt time.Time) error
}
