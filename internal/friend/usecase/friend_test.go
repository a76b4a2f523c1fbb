package usecase

import (
	"context"
	"testing"
	"time"

	"connect4-backend/internal/apperror"
	authdomain "connect4-backend/internal/auth/domain"
	"connect4-backend/internal/events"
	notification "connect4-backend/internal/notification/usecase"
	"connect4-backend/internal/presence"
	userdomain "connect4-backend/internal/user/domain"
	"connect4-backend/internal/user/repository"
	"connect4-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &authdomain.Principal{ID: "u1", Username: "alice"}
	bob   = &authdomain.Principal{ID: "u2", Username: "bob"}
)

func newFriendFixture(t *testing.T) (*FriendService, *notification.Notifier, *presence.Store) {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &userdomain.Friendship{}))
	users := repository.NewUserRepository(db)
	for _, u := range []userdomain.User{
		{ID: "u1", Username: "alice"},
		{ID: "u2", Username: "bob", Victories: 3},
	} {
		require.NoError(t, users.Create(context.Background(), &u))
	}

	store := presence.NewStore()
	notifier := notification.NewNotifier(notification.NewLedger(), store, events.NewRecorder(), time.Minute)
	return NewFriendService(users, store, notifier), notifier, store
}

func TestFriendRequestFlow(t *testing.T) {
	svc, notifier, store := newFriendFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, alice, "bob"))
	pending := notifier.Drain("u2")
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0].SenderUsername)

	require.NoError(t, svc.Respond(ctx, bob, pending[0].ID, true))

	store.Set("u2", presence.Entry{Online: true, CurrentMatchID: "m9"})
	friends, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)
	assert.True(t, friends[0].Online)
	assert.Equal(t, "m9", friends[0].Game)

	detail, err := svc.Detail(ctx, bob, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Username)
	assert.False(t, detail.Online)

	assert.ErrorIs(t, svc.Request(ctx, alice, "bob"), apperror.ErrConflict)
}

func TestFriendRequestErrors(t *testing.T) {
	svc, _, _ := newFriendFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Request(ctx, alice, "nobody"), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Request(ctx, alice, "alice"), apperror.ErrInvalidRequest)
	assert.ErrorIs(t, svc.Respond(ctx, bob, "unknown", true), apperror.ErrNotFound)

	_, err := svc.Detail(ctx, alice, "u2")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeclinedFriendRequest(t *testing.T) {
	svc, notifier, _ := newFriendFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, alice, "bob"))
	pending := notifier.Drain("u2")
	require.NoError(t, svc.Respond(ctx, bob, pending[0].ID, false))

	friends, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)
}
