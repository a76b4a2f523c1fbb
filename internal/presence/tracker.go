package presence

import (
	"context"
	"log"

	"connect4-backend/internal/events"
)

// FriendSource lists the friends of a user.
type FriendSource interface {
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

// QueueLeaver removes a user from every matchmaking queue.
type QueueLeaver interface {
	DequeueAll(userID string) bool
}

// Tracker reacts to connection lifecycle and keeps friends informed.
type Tracker struct {
	store   *Store
	friends FriendSource
	fanout  events.Fanout
	queues  QueueLeaver
}

func NewTracker(store *Store, friends FriendSource, fanout events.Fanout) *Tracker {
	return &Tracker{
		store:   store,
		friends: friends,
		fanout:  fanout,
	}
}

// SetQueueLeaver wires the matchmaking queues once they exist.
func (t *Tracker) SetQueueLeaver(q QueueLeaver) {
	t.queues = q
}

// Connected marks userID online, keeping any match it is playing, and subscribes it
// to its own topic.
func (t *Tracker) Connected(ctx context.Context, userID string) {
	t.store.Update(userID, func(e *Entry) {
		e.Online = true
	})
	t.fanout.Join(userID, userID)
	t.Announce(ctx, userID)
}

// Disconnected marks userID offline and drops it from the queues.
func (t *Tracker) Disconnected(ctx context.Context, userID string) {
	t.store.Update(userID, func(e *Entry) {
		e.Online = false
	})
	if t.queues != nil {
		t.queues.DequeueAll(userID)
	}
	t.Announce(ctx, userID)
}

// Announce tells the online friends of userID about its current presence.
func (t *Tracker) Announce(ctx context.Context, userID string) {
	if t.friends == nil {
		return
	}
	friendIDs, err := t.friends.FriendIDs(ctx, userID)
	if err != nil {
		log.Printf("[Presence] Error loading friends of %s: %v", userID, err)
		return
	}
	e, _ := t.store.Get(userID)
	payload := events.PresencePayload{ID: userID, Online: e.Online, Game: e.CurrentMatchID}
	for _, id := range friendIDs {
		if t.store.Online(id) {
			t.fanout.Emit(id, events.FriendPresenceChanged, payload)
		}
	}
}
