package repository

import (
	"context"
	"testing"

	authdomain "connect4-backend/internal/auth/domain"
	"connect4-backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) FCMTokenRepository {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.FCMToken{}))
	return NewFCMTokenRepository(db)
}

func TestSaveTokenUpsertsOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveToken(ctx, "alice", "tok-1", "firefox"))
	require.NoError(t, repo.SaveToken(ctx, "bob", "tok-1", "chrome"))

	tokens, err := repo.GetTokensByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = repo.GetTokensByUserID(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "chrome", tokens[0].DeviceInfo)
}

func TestDeleteUserTokenChecksOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveToken(ctx, "alice", "tok-1", ""))

	require.NoError(t, repo.DeleteUserToken(ctx, "bob", "tok-1"))
	tokens, err := repo.GetTokensByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	require.NoError(t, repo.DeleteToken(ctx, "tok-1"))
	tokens, err = repo.GetTokensByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
