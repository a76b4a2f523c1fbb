package usecase

import (
	"testing"
	"time"

	"connect4-backend/internal/apperror"
	"connect4-backend/internal/notification/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLedger() (*Ledger, *clock) {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLedger()
	l.SetClock(c.now)
	return l, c
}

var alice = Sender{ID: "alice", Username: "Alice"}

func TestDrainReturnsAndClearsInbox(t *testing.T) {
	l, _ := newTestLedger()
	n := l.Issue(domain.TypeGameInvite, alice, "bob", 10*time.Minute)

	got := l.Drain("bob")
	require.Len(t, got, 1)
	assert.Equal(t, n, got[0])
	assert.Equal(t, "Alice", got[0].SenderUsername)

	assert.Empty(t, l.Drain("bob"))
}

func TestValidateSucceedsOnce(t *testing.T) {
	l, _ := newTestLedger()
	n := l.Issue(domain.TypeGameInvite, alice, "bob", 10*time.Minute)
	l.Drain("bob")

	assert.True(t, l.Validate("bob", n))
	assert.False(t, l.Validate("bob", n))
}

func TestValidateRequiresDelivery(t *testing.T) {
	l, _ := newTestLedger()
	n := l.Issue(domain.TypeFriendRequest, alice, "bob", 10*time.Minute)

	assert.False(t, l.Validate("bob", n))
	assert.False(t, l.Validate("carol", n))
}

func TestValidateAfterExpiryFailsAndRemoves(t *testing.T) {
	l, c := newTestLedger()
	n := l.Issue(domain.TypeGameInvite, alice, "bob", 10*time.Minute)
	l.Drain("bob")

	c.t = c.t.Add(11 * time.Minute)
	_, err := l.Redeem("bob", n.ID, n.Type)
	assert.ErrorIs(t, err, apperror.ErrExpired)

	c.t = c.t.Add(-11 * time.Minute)
	assert.False(t, l.Validate("bob", n))
}

func TestRedeemPurgesExpiredEntries(t *testing.T) {
	l, c := newTestLedger()
	short := l.Issue(domain.TypeGameInvite, alice, "bob", time.Minute)
	long := l.Issue(domain.TypeFriendRequest, alice, "bob", time.Hour)
	l.Drain("bob")

	c.t = c.t.Add(2 * time.Minute)
	got, err := l.Redeem("bob", long.ID, long.Type)
	require.NoError(t, err)
	assert.Equal(t, long, got)

	c.t = c.t.Add(-2 * time.Minute)
	_, err = l.Redeem("bob", short.ID, short.Type)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRedeemChecksType(t *testing.T) {
	l, _ := newTestLedger()
	n := l.Issue(domain.TypeFriendRequest, alice, "bob", time.Hour)
	l.Drain("bob")

	_, err := l.Redeem("bob", n.ID, domain.TypeGameInvite)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = l.Redeem("bob", n.ID, domain.TypeFriendRequest)
	assert.NoError(t, err)
}

func TestPrivateMessagesAreNotRedeemable(t *testing.T) {
	l, _ := newTestLedger()
	n := l.Issue(domain.TypePrivateMessage, alice, "bob", time.Hour)
	l.Drain("bob")

	assert.False(t, l.Validate("bob", n))
}

func TestDrainDropsExpired(t *testing.T) {
	l, c := newTestLedger()
	l.Issue(domain.TypeGameInvite, alice, "bob", time.Minute)
	live := l.Issue(domain.TypeFriendRequest, alice, "bob", 2*time.Hour)

	c.t = c.t.Add(time.Hour)
	got := l.Drain("bob")
	assert.Equal(t, []domain.Notification{live}, got)
	assert.Equal(t, 1, l.pendingSent("bob"))
}

func TestDrainPurgesExpiredSentEntries(t *testing.T) {
	l, c := newTestLedger()
	n := l.Issue(domain.TypeGameInvite, alice, "bob", time.Minute)
	l.Drain("bob")
	require.Equal(t, 1, l.pendingSent("bob"))

	c.t = c.t.Add(time.Hour)
	assert.Empty(t, l.Drain("bob"))
	assert.Zero(t, l.pendingSent("bob"))

	c.t = c.t.Add(-time.Hour)
	_, err := l.Redeem("bob", n.ID, n.Type)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
