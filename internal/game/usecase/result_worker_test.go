package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	gamedomain "connect4-backend/internal/game/domain"

	"github.com/stretchr/testify/assert"
)

type fakeStores struct {
	mu        sync.Mutex
	victories map[string]int
	defeats   map[string]int
	persisted []string
	published []string
	refreshed []string
	failWins  bool
}

func newFakeStores() *fakeStores {
	return &fakeStores{victories: map[string]int{}, defeats: map[string]int{}}
}

func (f *fakeStores) IncrementVictories(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWins {
		return errors.New("db down")
	}
	f.victories[id]++
	return nil
}

func (f *fakeStores) IncrementDefeats(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defeats[id]++
	return nil
}

func (f *fakeStores) Persist(_ context.Context, r gamedomain.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persisted = append(f.persisted, r.MatchID)
	return nil
}

func (f *fakeStores) PublishResult(_ context.Context, r gamedomain.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, r.MatchID)
	return nil
}

func (f *fakeStores) Refresh(_ context.Context, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, ids...)
	return nil
}

func TestResultWorkerAppliesWin(t *testing.T) {
	stores := newFakeStores()
	w := NewResultWorkerService(stores, stores, 2)
	w.SetPublisher(stores)
	w.SetRankingRefresher(stores)
	w.Start()

	w.Submit(gamedomain.Result{MatchID: "m1", WinnerID: "alice", LoserID: "bob"})
	w.Stop()

	assert.Equal(t, 1, stores.victories["alice"])
	assert.Equal(t, 1, stores.defeats["bob"])
	assert.Equal(t, []string{"m1"}, stores.persisted)
	assert.Equal(t, []string{"m1"}, stores.published)
	assert.ElementsMatch(t, []string{"alice", "bob"}, stores.refreshed)
}

func TestResultWorkerTieOnlyPersists(t *testing.T) {
	stores := newFakeStores()
	w := NewResultWorkerService(stores, stores, 1)
	w.SetRankingRefresher(stores)
	w.Start()

	w.Submit(gamedomain.Result{MatchID: "m2", Tie: true})
	w.Stop()

	assert.Empty(t, stores.victories)
	assert.Empty(t, stores.defeats)
	assert.Empty(t, stores.refreshed)
	assert.Equal(t, []string{"m2"}, stores.persisted)
}

func TestResultWorkerKeepsGoingAfterCounterFailure(t *testing.T) {
	stores := newFakeStores()
	stores.failWins = true
	w := NewResultWorkerService(stores, stores, 1)
	w.Start()

	w.Submit(gamedomain.Result{MatchID: "m3", WinnerID: "alice", LoserID: "bob"})
	w.Stop()

	assert.Equal(t, 1, stores.defeats["bob"])
	assert.Equal(t, []string{"m3"}, stores.persisted)
}

func TestResultWorkerStopDrainsUnstartedQueue(t *testing.T) {
	stores := newFakeStores()
	w := NewResultWorkerService(stores, stores, 1)

	w.Submit(gamedomain.Result{MatchID: "a", Tie: true})
	w.Submit(gamedomain.Result{MatchID: "b", Tie: true})
	w.Stop()
	w.Stop()

	assert.Equal(t, []string{"a", "b"}, stores.persisted)
}
