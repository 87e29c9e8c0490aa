package service

import (
	"context"
	"testing"

	"quizhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendshipService_RequestAcceptRemove(t *testing.T) {
	store := newMemStore()
	svc := NewFriendshipService(store, store)
	ctx := context.Background()
	store.addUser("a", "auth-a", "alice")
	store.addUser("b", "auth-b", "bob")
	store.addUser("c", "auth-c", "carol")

	f, err := svc.RequestFriend(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, f.Accepted)

	_, err = svc.RequestFriend(ctx, "a", "b")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.AcceptFriend(ctx, "a", "b")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "requester cannot accept their own request")

	_, err = svc.RequestFriend(ctx, "c", "a")
	require.NoError(t, err)

	list, err := svc.ListFriends(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, list.Friends)
	require.Len(t, list.Outgoing, 1)
	assert.Equal(t, "bob", list.Outgoing[0].Username)
	require.Len(t, list.Incoming, 1)
	assert.Equal(t, "carol", list.Incoming[0].Username)

	f, err = svc.AcceptFriend(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, f.Accepted)

	// A reverse request accepts the pending one.
	f, err = svc.RequestFriend(ctx, "a", "c")
	require.NoError(t, err)
	assert.True(t, f.Accepted)

	list, err = svc.ListFriends(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, list.Friends, 2)

	require.NoError(t, svc.RemoveFriend(ctx, "a", "b"))
	assert.ErrorIs(t, svc.RemoveFriend(ctx, "a", "b"), domain.ErrNotFound)
}

func TestFriendshipService_RequestFriend_Rejections(t *testing.T) {
	store := newMemStore()
	svc := NewFriendshipService(store, store)
	ctx := context.Background()
	store.addUser("a", "auth-a", "alice")
	p, _ := store.EnsurePlaceholder(ctx)

	_, err := svc.RequestFriend(ctx, "a", "a")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = svc.RequestFriend(ctx, "a", p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = svc.RequestFriend(ctx, "a", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
