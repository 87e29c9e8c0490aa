package domain

import (
	"context"
	"time"
)

// Friendship is an undirected edge between two users. User1 is the requester
// until the edge is accepted; after that the order carries no meaning.
type Friendship struct {
	ID        string
	User1ID   string
	User2ID   string
	Accepted  bool
	CreatedAt time.Time
}

// Involves reports whether userID is either endpoint.
func (f *Friendship) Involves(userID string) bool {
	return f.User1ID == userID || f.User2ID == userID
}

// Other returns the endpoint that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

// FriendshipRepository persists the friendship graph.
type FriendshipRepository interface {
	CreateFriendship(ctx context.Context, f *Friendship) error
	// GetFriendship finds the edge between a and b in either direction.
	GetFriendship(ctx context.Context, a, b string) (*Friendship, error)
	AcceptFriendship(ctx context.Context, id string) error
	DeleteFriendship(ctx context.Context, id string) error
	ListFriendships(ctx context.Context, userID string) ([]*Friendship, error)
	// DeleteFriendshipsByUser removes every edge where userID is an endpoint.
	DeleteFriendshipsByUser(ctx context.Context, userID string) (int64, error)
}
