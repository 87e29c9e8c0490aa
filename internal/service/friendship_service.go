package service

import (
	"context"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/util"
)

// FriendshipService manages the friendship graph for the caller.
type FriendshipService interface {
	// RequestFriend sends a request, or accepts one the target already sent.
	RequestFriend(ctx context.Context, userID, targetID string) (*domain.Friendship, error)
	AcceptFriend(ctx context.Context, userID, requesterID string) (*domain.Friendship, error)
	// RemoveFriend unfriends, withdraws or declines.
	RemoveFriend(ctx context.Context, userID, otherID string) error
	ListFriends(ctx context.Context, userID string) (*dto.FriendsResponse, error)
}

type friendshipServiceImpl struct {
	friendships domain.FriendshipRepository
	users       domain.UserRepository
}

// NewFriendshipService creates a new FriendshipService.
func NewFriendshipService(friendships domain.FriendshipRepository, users domain.UserRepository) FriendshipService {
	return &friendshipServiceImpl{friendships: friendships, users: users}
}

func (s *friendshipServiceImpl) RequestFriend(ctx context.Context, userID, targetID string) (*domain.Friendship, error) {
	if userID == targetID {
		return nil, domain.NewInvalidOperationError("You cannot befriend yourself")
	}
	target, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if target == nil {
		return nil, domain.NewUserNotFoundError()
	}
	if target.IsPlaceholder {
		return nil, domain.NewInvalidOperationError("You cannot befriend a deleted user")
	}

	existing, err := s.friendships.GetFriendship(ctx, userID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	if existing != nil {
		if !existing.Accepted && existing.User2ID == userID {
			return s.accept(ctx, existing)
		}
		return nil, domain.NewConflictError("Friendship already exists")
	}

	f := &domain.Friendship{
		ID:        util.NewULID(),
		User1ID:   userID,
		User2ID:   targetID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.friendships.CreateFriendship(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *friendshipServiceImpl) AcceptFriend(ctx context.Context, userID, requesterID string) (*domain.Friendship, error) {
	f, err := s.friendships.GetFriendship(ctx, userID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	if f == nil {
		return nil, domain.NewNotFoundError("Friend request not found")
	}
	if f.Accepted {
		return nil, domain.NewInvalidStateError("Already friends")
	}
	if f.User2ID != userID {
		return nil, domain.NewInvalidStateError("Only the recipient can accept a friend request")
	}
	return s.accept(ctx, f)
}

func (s *friendshipServiceImpl) accept(ctx context.Context, f *domain.Friendship) (*domain.Friendship, error) {
	if err := s.friendships.AcceptFriendship(ctx, f.ID); err != nil {
		return nil, err
	}
	f.Accepted = true
	return f, nil
}

func (s *friendshipServiceImpl) RemoveFriend(ctx context.Context, userID, otherID string) error {
	f, err := s.friendships.GetFriendship(ctx, userID, otherID)
	if err != nil {
		return fmt.Errorf("failed to get friendship: %w", err)
	}
	if f == nil {
		return domain.NewNotFoundError("Friendship not found")
	}
	return s.friendships.DeleteFriendship(ctx, f.ID)
}

func (s *friendshipServiceImpl) ListFriends(ctx context.Context, userID string) (*dto.FriendsResponse, error) {
	edges, err := s.friendships.ListFriendships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	resp := &dto.FriendsResponse{
		Friends:  []dto.UserSummary{},
		Incoming: []dto.UserSummary{},
		Outgoing: []dto.UserSummary{},
	}
	for _, f := range edges {
		other, err := s.users.GetUserByID(ctx, f.Other(userID))
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if other == nil {
			continue
		}
		summary := dto.UserSummary{ID: other.ID, Username: other.Username, ProfilePic: other.ProfilePic}
		switch {
		case f.Accepted:
			resp.Friends = append(resp.Friends, summary)
		case f.User2ID == userID:
			resp.Incoming = append(resp.Incoming, summary)
		default:
			resp.Outgoing = append(resp.Outgoing, summary)
		}
	}
	return resp, nil
}
