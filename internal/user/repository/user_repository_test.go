package repository

import (
	"context"
	"testing"

	"connect4-backend/internal/apperror"
	userdomain "connect4-backend/internal/user/domain"
	"connect4-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &userdomain.Friendship{}))
	return NewUserRepository(db)
}

func seed(t *testing.T, repo UserRepository, users ...userdomain.User) {
	t.Helper()
	for i := range users {
		require.NoError(t, repo.Create(context.Background(), &users[i]))
	}
}

func TestFindByIDAndUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seed(t, repo, userdomain.User{ID: "u1", Username: "alice", Roles: userdomain.StringArray{"MODERATOR"}})

	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.HasRole(userdomain.RoleModerator))

	u, err = repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	u, err = repo.FindByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestFriendships(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seed(t, repo,
		userdomain.User{ID: "u1", Username: "alice"},
		userdomain.User{ID: "u2", Username: "bob"},
	)

	ok, err := repo.AreFriends(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AddFriendship(ctx, "u1", "u2"))
	assert.ErrorIs(t, repo.AddFriendship(ctx, "u2", "u1"), apperror.ErrConflict)

	ok, err = repo.AreFriends(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := repo.FriendIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, ids)
}

func TestCountersAndLeaderboard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seed(t, repo,
		userdomain.User{ID: "u1", Username: "alice", Victories: 4, Defeats: 1},
		userdomain.User{ID: "u2", Username: "bob", Victories: 1, Defeats: 0},
		userdomain.User{ID: "u3", Username: "carol", Victories: 0, Defeats: 3},
	)

	require.NoError(t, repo.IncrementVictories(ctx, "u2"))
	require.NoError(t, repo.IncrementDefeats(ctx, "u1"))
	assert.ErrorIs(t, repo.IncrementVictories(ctx, "missing"), apperror.ErrNotFound)

	top, err := repo.TopByRatio(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Username)
	assert.Equal(t, 2.0, top[0].Ratio())
	assert.Equal(t, "alice", top[1].Username)
	assert.InDelta(t, 4.0/3.0, top[1].Ratio(), 1e-9)
}

func TestFindByIDs(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		userdomain.User{ID: "u1", Username: "alice"},
		userdomain.User{ID: "u2", Username: "bob"},
	)

	users, err := repo.FindByIDs(context.Background(), []string{"u2", "u1", "nope"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	users, err = repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
