package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"connect4-backend/internal/events"
	gamedomain "connect4-backend/internal/game/domain"
	mmdomain "connect4-backend/internal/matchmaking/domain"
	userdomain "connect4-backend/internal/user/domain"
)

// DefaultRankedBand is the widest ratio gap accepted by ranked pairing.
const DefaultRankedBand = 0.25

// MatchCreator starts a match between two players.
type MatchCreator interface {
	CreateMatch(ctx context.Context, a, b gamedomain.Player) (*gamedomain.Match, error)
}

// ProfileSource loads the profile of a waiting opponent.
type ProfileSource interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
}

// EnqueueResult tells the caller whether it is waiting or already playing.
type EnqueueResult struct {
	Queued bool              `json:"queued"`
	Match  *gamedomain.Match `json:"match,omitempty"`
}

// Queues holds the ranked and scrimmage queues. A user waits in at most one of them.
type Queues struct {
	mu      sync.Mutex
	entries map[mmdomain.Kind][]mmdomain.Entry
	seq     uint64

	matches MatchCreator
	users   ProfileSource
	fanout  events.Fanout
	band    float64
	now     func() time.Time
}

func NewQueues(matches MatchCreator, users ProfileSource, fanout events.Fanout, band float64) *Queues {
	if band <= 0 {
		band = DefaultRankedBand
	}
	return &Queues{
		entries: map[mmdomain.Kind][]mmdomain.Entry{
			mmdomain.Ranked:    {},
			mmdomain.Scrimmage: {},
		},
		matches: matches,
		users:   users,
		fanout:  fanout,
		band:    band,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for join times.
func (q *Queues) SetClock(now func() time.Time) {
	q.now = now
}

// Enqueue pairs profile with a waiting opponent of the given queue or puts it in
// line. Joining a queue removes the user from the other one. Pairing runs as one
// critical section: once an opponent is picked both entries are consumed, even if the
// match cannot be created.
func (q *Queues) Enqueue(ctx context.Context, kind mmdomain.Kind, profile *userdomain.User) (*EnqueueResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOf(kind, profile.ID) >= 0 {
		return &EnqueueResult{Queued: true}, nil
	}
	q.remove(kind.Other(), profile.ID)

	entry := mmdomain.Entry{
		UserID:   profile.ID,
		Username: profile.Username,
		Ratio:    profile.Ratio(),
		JoinedAt: q.now(),
	}

	idx := q.pick(kind, entry)
	if idx < 0 {
		q.seq++
		entry.Seq = q.seq
		q.insert(kind, entry)
		q.broadcast()
		log.Printf("[Matchmaking] %s joined %s queue (size %d)", profile.Username, kind, len(q.entries[kind]))
		return &EnqueueResult{Queued: true}, nil
	}

	opponent := q.entries[kind][idx]
	q.entries[kind] = append(q.entries[kind][:idx], q.entries[kind][idx+1:]...)
	q.broadcast()

	other, err := q.users.FindByID(ctx, opponent.UserID)
	if err != nil {
		return nil, fmt.Errorf("load opponent %s: %w", opponent.UserID, err)
	}
	if other == nil {
		return nil, fmt.Errorf("opponent %s no longer exists", opponent.UserID)
	}

	m, err := q.matches.CreateMatch(ctx,
		gamedomain.Player{ID: profile.ID, Username: profile.Username},
		gamedomain.Player{ID: other.ID, Username: other.Username},
	)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	log.Printf("[Matchmaking] Paired %s with %s in %s queue (match %s)", profile.Username, other.Username, kind, m.ID)
	return &EnqueueResult{Match: m}, nil
}

// pick returns the index of the opponent for entry, or -1.
func (q *Queues) pick(kind mmdomain.Kind, entry mmdomain.Entry) int {
	line := q.entries[kind]
	if kind == mmdomain.Scrimmage {
		if len(line) == 0 {
			return -1
		}
		return 0
	}
	for i, e := range line {
		if math.Abs(e.Ratio-entry.Ratio) <= q.band {
			return i
		}
	}
	return -1
}

func (q *Queues) insert(kind mmdomain.Kind, entry mmdomain.Entry) {
	line := q.entries[kind]
	i := sort.Search(len(line), func(i int) bool { return entry.Before(line[i]) })
	line = append(line, mmdomain.Entry{})
	copy(line[i+1:], line[i:])
	line[i] = entry
	q.entries[kind] = line
}

func (q *Queues) indexOf(kind mmdomain.Kind, userID string) int {
	for i, e := range q.entries[kind] {
		if e.UserID == userID {
			return i
		}
	}
	return -1
}

func (q *Queues) remove(kind mmdomain.Kind, userID string) bool {
	i := q.indexOf(kind, userID)
	if i < 0 {
		return false
	}
	q.entries[kind] = append(q.entries[kind][:i], q.entries[kind][i+1:]...)
	return true
}

func (q *Queues) broadcast() {
	q.fanout.Broadcast(events.QueueSizeChanged, mmdomain.Sizes{
		Ranked:    len(q.entries[mmdomain.Ranked]),
		Scrimmage: len(q.entries[mmdomain.Scrimmage]),
	})
}

// Dequeue removes userID from the queue. It is a no-op when the user is not waiting.
func (q *Queues) Dequeue(kind mmdomain.Kind, userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := q.remove(kind, userID)
	q.broadcast()
	return removed
}

// DequeueAll removes userID from both queues.
func (q *Queues) DequeueAll(userID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	ranked := q.remove(mmdomain.Ranked, userID)
	scrimmage := q.remove(mmdomain.Scrimmage, userID)
	if ranked || scrimmage {
		q.broadcast()
		return true
	}
	return false
}

func (q *Queues) Status(kind mmdomain.Kind, userID string) mmdomain.Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	return mmdomain.Status{
		Queued:    q.indexOf(kind, userID) >= 0,
		QueueSize: len(q.entries[kind]),
	}
}
