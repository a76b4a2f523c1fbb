package presence

import (
	"context"
	"testing"

	"connect4-backend/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type friendMap map[string][]string

func (f friendMap) FriendIDs(_ context.Context, userID string) ([]string, error) {
	return f[userID], nil
}

type leaver struct{ calls []string }

func (l *leaver) DequeueAll(userID string) bool {
	l.calls = append(l.calls, userID)
	return true
}

func TestConnectedKeepsCurrentMatch(t *testing.T) {
	store := NewStore()
	store.Set("alice", Entry{Online: false, CurrentMatchID: "m1"})
	rec := events.NewRecorder()
	tr := NewTracker(store, friendMap{}, rec)

	tr.Connected(context.Background(), "alice")

	e, ok := store.Get("alice")
	require.True(t, ok)
	assert.Equal(t, Entry{Online: true, CurrentMatchID: "m1"}, e)
	assert.True(t, rec.Member("alice", "alice"))
}

func TestConnectedNotifiesOnlineFriendsOnly(t *testing.T) {
	store := NewStore()
	store.Set("bob", Entry{Online: true})
	store.Set("carol", Entry{Online: false})
	rec := events.NewRecorder()
	tr := NewTracker(store, friendMap{"alice": {"bob", "carol"}}, rec)

	tr.Connected(context.Background(), "alice")

	sent := rec.Named(events.FriendPresenceChanged)
	require.Len(t, sent, 1)
	assert.Equal(t, "bob", sent[0].Topic)
	assert.Equal(t, events.PresencePayload{ID: "alice", Online: true}, sent[0].Payload)
}

func TestDisconnectedLeavesQueues(t *testing.T) {
	store := NewStore()
	store.Set("bob", Entry{Online: true})
	rec := events.NewRecorder()
	l := &leaver{}
	tr := NewTracker(store, friendMap{"alice": {"bob"}}, rec)
	tr.SetQueueLeaver(l)

	tr.Connected(context.Background(), "alice")
	rec.Reset()
	tr.Disconnected(context.Background(), "alice")

	assert.False(t, store.Online("alice"))
	assert.Equal(t, []string{"alice"}, l.calls)
	sent := rec.Named(events.FriendPresenceChanged)
	require.Len(t, sent, 1)
	assert.Equal(t, events.PresencePayload{ID: "alice", Online: false}, sent[0].Payload)
}
