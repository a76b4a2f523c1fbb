package usecase

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"connect4-backend/internal/apperror"
	"connect4-backend/internal/events"
	gamedomain "connect4-backend/internal/game/domain"
	"connect4-backend/internal/presence"

	"github.com/google/uuid"
)

// ResultSink receives the outcome of every ended match exactly once.
type ResultSink interface {
	Submit(result gamedomain.Result)
}

// Announcer tells a user's friends about a presence change.
type Announcer interface {
	Announce(ctx context.Context, userID string)
}

type liveMatch struct {
	mu    sync.Mutex
	match *gamedomain.Match
}

// MatchRegistry owns every live match. Each match is guarded by its own mutex, the
// registry lock only protects the index.
type MatchRegistry struct {
	mu      sync.RWMutex
	matches map[string]*liveMatch

	presence  *presence.Store
	announcer Announcer
	fanout    events.Fanout
	sink      ResultSink

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

func NewMatchRegistry(store *presence.Store, announcer Announcer, fanout events.Fanout, sink ResultSink, rng *rand.Rand) *MatchRegistry {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MatchRegistry{
		matches:   make(map[string]*liveMatch),
		presence:  store,
		announcer: announcer,
		fanout:    fanout,
		sink:      sink,
		rng:       rng,
		now:       time.Now,
	}
}

// SetClock replaces the time source.
func (r *MatchRegistry) SetClock(now func() time.Time) {
	r.now = now
}

// CreateMatch starts a match between a and b. Which of them moves first is chosen
// uniformly at random.
func (r *MatchRegistry) CreateMatch(ctx context.Context, a, b gamedomain.Player) (*gamedomain.Match, error) {
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		return nil, apperror.ErrInvalidPlayers
	}

	one, two := a, b
	if r.coinFlip() {
		one, two = b, a
	}
	m := gamedomain.NewMatch(uuid.New().String(), one, two)
	m.Start(r.now())

	r.mu.Lock()
	r.matches[m.ID] = &liveMatch{match: m}
	r.mu.Unlock()

	payload := events.MatchPayload{MatchID: m.ID}
	for _, p := range []gamedomain.Player{one, two} {
		r.presence.Set(p.ID, presence.Entry{Online: true, CurrentMatchID: m.ID})
		r.fanout.Join(p.ID, m.ID)
		r.fanout.Emit(p.ID, events.MatchCreated, payload)
	}
	if r.announcer != nil {
		r.announcer.Announce(ctx, one.ID)
		r.announcer.Announce(ctx, two.ID)
	}

	log.Printf("[Registry] Match %s created: %s vs %s", m.ID, one.Username, two.Username)
	return m.Snapshot(), nil
}

func (r *MatchRegistry) coinFlip() bool {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Intn(2) == 1
}

func (r *MatchRegistry) lookup(matchID string) (*liveMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lm, ok := r.matches[matchID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return lm, nil
}

// GetMatch returns a snapshot of the match.
func (r *MatchRegistry) GetMatch(matchID string) (*gamedomain.Match, error) {
	lm, err := r.lookup(matchID)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.match.Snapshot(), nil
}

// ApplyMove plays column for requesterID. Moves on an ended match return the final
// state unchanged.
func (r *MatchRegistry) ApplyMove(ctx context.Context, matchID, requesterID string, column int) (*gamedomain.Match, error) {
	lm, err := r.lookup(matchID)
	if err != nil {
		return nil, err
	}

	lm.mu.Lock()
	if lm.match.Ended() {
		snap := lm.match.Snapshot()
		lm.mu.Unlock()
		return snap, nil
	}
	ended, err := lm.match.Move(requesterID, column, r.now())
	if err != nil {
		lm.mu.Unlock()
		return nil, err
	}
	snap := lm.match.Snapshot()
	var result gamedomain.Result
	if ended {
		result = lm.match.Result()
	}
	lm.mu.Unlock()

	if ended {
		r.finish(ctx, snap, result)
	}
	r.fanout.Emit(matchID, events.MatchUpdated, events.MatchPayload{MatchID: matchID})
	return snap, nil
}

func (r *MatchRegistry) finish(ctx context.Context, m *gamedomain.Match, result gamedomain.Result) {
	for _, p := range []gamedomain.Player{m.PlayerOne, m.PlayerTwo} {
		r.presence.Update(p.ID, func(e *presence.Entry) {
			if e.CurrentMatchID == m.ID {
				e.CurrentMatchID = ""
			}
		})
		if r.announcer != nil {
			r.announcer.Announce(ctx, p.ID)
		}
	}
	if r.sink != nil {
		r.sink.Submit(result)
	}
	log.Printf("[Registry] Match %s ended (winner=%q tie=%v)", m.ID, m.WinnerName, m.Tie)
}

// SetSpectator adds or removes userID from the spectators of the match. Repeating
// the same request has no further effect on the set. Players of the match cannot
// spectate it.
func (r *MatchRegistry) SetSpectator(matchID, userID string, follow bool) error {
	lm, err := r.lookup(matchID)
	if err != nil {
		return err
	}

	lm.mu.Lock()
	if lm.match.IsPlayer(userID) {
		lm.mu.Unlock()
		return apperror.ErrForbidden
	}
	if follow {
		lm.match.AddSpectator(userID)
	} else {
		lm.match.RemoveSpectator(userID)
	}
	lm.mu.Unlock()

	payload := events.UserPayload{UserID: userID}
	if follow {
		r.fanout.Join(userID, matchID)
		r.fanout.Emit(matchID, events.SpectatorJoined, payload)
	} else {
		r.fanout.Leave(userID, matchID)
		r.fanout.Emit(matchID, events.SpectatorLeft, payload)
	}
	return nil
}

// Spectators returns the spectator ids in join order.
func (r *MatchRegistry) Spectators(matchID string) ([]string, error) {
	m, err := r.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	return m.Spectators, nil
}

// IsParticipant reports whether userID plays in the match.
func (r *MatchRegistry) IsParticipant(matchID, userID string) (bool, error) {
	m, err := r.GetMatch(matchID)
	if err != nil {
		return false, err
	}
	return m.IsPlayer(userID), nil
}

// EvictEnded drops matches that ended before the cutoff and returns how many were
// removed. The topics of evicted matches are closed.
func (r *MatchRegistry) EvictEnded(before time.Time) int {
	r.mu.Lock()
	var evicted []string
	for id, lm := range r.matches {
		lm.mu.Lock()
		m := lm.match
		stale := m.Ended() && m.EndedAt != nil && m.EndedAt.Before(before)
		lm.mu.Unlock()
		if stale {
			delete(r.matches, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	for _, id := range evicted {
		r.fanout.Close(id)
	}
	return len(evicted)
}

// Len returns the number of matches held.
func (r *MatchRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
