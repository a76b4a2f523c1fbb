package domain

import (
	"testing"
	"time"

	"connect4-backend/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = Player{ID: "alice", Username: "Alice"}
	bob   = Player{ID: "bob", Username: "Bob"}
)

func activeMatch() *Match {
	m := NewMatch("m1", alice, bob)
	m.Start(time.Unix(100, 0))
	return m
}

func TestMoveOutOfTurnIsForbidden(t *testing.T) {
	m := activeMatch()
	before := m.Snapshot()

	ended, err := m.Move(bob.ID, 3, time.Now())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, ended)
	assert.Equal(t, before, m.Snapshot())

	_, err = m.Move("mallory", 3, time.Now())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMoveIntoFullColumnIsInvalid(t *testing.T) {
	m := activeMatch()
	players := []string{alice.ID, bob.ID}
	for i := 0; i < Rows; i++ {
		_, err := m.Move(players[i%2], 2, time.Now())
		require.NoError(t, err)
	}

	_, err := m.Move(alice.ID, 2, time.Now())
	assert.ErrorIs(t, err, apperror.ErrInvalidMove)
	assert.True(t, m.PlayerOneTurn)
}

func TestMoveWinEndsMatch(t *testing.T) {
	m := activeMatch()
	end := time.Unix(200, 0)
	players := []string{alice.ID, bob.ID}
	columns := []int{0, 1, 0, 1, 0, 1}
	for i, c := range columns {
		ended, err := m.Move(players[i%2], c, end)
		require.NoError(t, err)
		require.False(t, ended)
	}

	ended, err := m.Move(alice.ID, 0, end)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, StatusEnded, m.Status)
	assert.Equal(t, alice.ID, m.Winner)
	assert.Equal(t, alice.Username, m.WinnerName)
	require.NotNil(t, m.EndedAt)
	assert.Equal(t, end, *m.EndedAt)

	r := m.Result()
	assert.Equal(t, alice.ID, r.WinnerID)
	assert.Equal(t, bob.ID, r.LoserID)
	assert.False(t, r.Tie)

	// Further moves are ignored.
	before := m.Snapshot()
	ended, err = m.Move(bob.ID, 4, end)
	assert.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, before, m.Snapshot())
}

func TestMoveFillingBoardIsTie(t *testing.T) {
	m := activeMatch()
	var ended bool
	for i, c := range tieMoves {
		var err error
		ended, err = m.Move(m.Current().ID, c, time.Now())
		require.NoError(t, err, "move %d", i)
		if i < len(tieMoves)-1 {
			require.False(t, ended)
		}
	}

	assert.True(t, ended)
	assert.True(t, m.Tie)
	assert.Empty(t, m.Winner)
	assert.Equal(t, TieName, m.WinnerName)
	assert.Empty(t, m.Result().LoserID)
}

func TestSpectatorsAreASet(t *testing.T) {
	m := activeMatch()

	assert.True(t, m.AddSpectator("carol"))
	assert.False(t, m.AddSpectator("carol"))
	assert.True(t, m.AddSpectator("dave"))
	assert.Equal(t, []string{"carol", "dave"}, m.Spectators)

	assert.True(t, m.RemoveSpectator("carol"))
	assert.False(t, m.RemoveSpectator("carol"))
	assert.Equal(t, []string{"dave"}, m.Spectators)
}

func TestPendingMatchRejectsMoves(t *testing.T) {
	m := NewMatch("m2", alice, bob)
	_, err := m.Move(alice.ID, 0, time.Now())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
