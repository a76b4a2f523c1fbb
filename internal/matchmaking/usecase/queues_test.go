package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"connect4-backend/internal/events"
	gamedomain "connect4-backend/internal/game/domain"
	mmdomain "connect4-backend/internal/matchmaking/domain"
	userdomain "connect4-backend/internal/user/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairRecorder struct {
	mu    sync.Mutex
	pairs [][2]string
}

func (p *pairRecorder) CreateMatch(_ context.Context, a, b gamedomain.Player) (*gamedomain.Match, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pairs = append(p.pairs, [2]string{a.ID, b.ID})
	return gamedomain.NewMatch("match-"+a.ID+"-"+b.ID, a, b), nil
}

type profiles struct {
	users map[string]*userdomain.User
	err   error
}

func (p *profiles) FindByID(_ context.Context, id string) (*userdomain.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.users[id], nil
}

// user builds a profile whose ratio is victories / (defeats + 1).
func user(id string, victories, defeats int) *userdomain.User {
	return &userdomain.User{ID: id, Username: id, Victories: victories, Defeats: defeats}
}

type queueFixture struct {
	queues   *Queues
	pairs    *pairRecorder
	profiles *profiles
	fanout   *events.Recorder
	clock    time.Time
}

func newQueueFixture(users ...*userdomain.User) *queueFixture {
	f := &queueFixture{
		pairs:    &pairRecorder{},
		profiles: &profiles{users: map[string]*userdomain.User{}},
		fanout:   events.NewRecorder(),
		clock:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, u := range users {
		f.profiles.users[u.ID] = u
	}
	f.queues = NewQueues(f.pairs, f.profiles, f.fanout, DefaultRankedBand)
	f.queues.SetClock(func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	})
	return f
}

func TestRankedPairsWithinBand(t *testing.T) {
	a := user("a", 1, 0) // 1.0
	b := user("b", 6, 4) // 1.2
	f := newQueueFixture(a, b)
	ctx := context.Background()

	res, err := f.queues.Enqueue(ctx, mmdomain.Ranked, a)
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.Equal(t, mmdomain.Status{Queued: true, QueueSize: 1}, f.queues.Status(mmdomain.Ranked, "a"))

	res, err = f.queues.Enqueue(ctx, mmdomain.Ranked, b)
	require.NoError(t, err)
	assert.False(t, res.Queued)
	require.NotNil(t, res.Match)
	assert.Equal(t, [][2]string{{"b", "a"}}, f.pairs.pairs)
	assert.Equal(t, mmdomain.Status{Queued: false, QueueSize: 0}, f.queues.Status(mmdomain.Ranked, "a"))

	sizes := f.fanout.Named(events.QueueSizeChanged)
	require.NotEmpty(t, sizes)
	assert.Equal(t, mmdomain.Sizes{}, sizes[len(sizes)-1].Payload)
}

func TestRankedSkipsOutOfBand(t *testing.T) {
	a := user("a", 1, 0) // 1.0
	c := user("c", 2, 0) // 2.0
	f := newQueueFixture(a, c)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Ranked, a)
	require.NoError(t, err)
	res, err := f.queues.Enqueue(ctx, mmdomain.Ranked, c)
	require.NoError(t, err)

	assert.True(t, res.Queued)
	assert.Empty(t, f.pairs.pairs)
	assert.Equal(t, 2, f.queues.Status(mmdomain.Ranked, "c").QueueSize)
}

func TestRankedPrefersLongestWaiting(t *testing.T) {
	a := user("a", 1, 0)  // 1.0
	c := user("c", 11, 9) // 1.1
	b := user("b", 6, 4)  // 1.2
	f := newQueueFixture(a, b, c)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Ranked, a)
	require.NoError(t, err)
	_, err = f.queues.Enqueue(ctx, mmdomain.Ranked, c)
	require.NoError(t, err)
	_, err = f.queues.Enqueue(ctx, mmdomain.Ranked, b)
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"b", "a"}}, f.pairs.pairs)
	assert.True(t, f.queues.Status(mmdomain.Ranked, "c").Queued)
}

func TestScrimmageIsFIFO(t *testing.T) {
	a, b, c := user("a", 0, 9), user("b", 9, 0), user("c", 50, 0)
	f := newQueueFixture(a, b, c)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)
	_, err = f.queues.Enqueue(ctx, mmdomain.Scrimmage, b)
	require.NoError(t, err)
	_, err = f.queues.Enqueue(ctx, mmdomain.Scrimmage, c)
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"b", "a"}}, f.pairs.pairs)
	assert.Equal(t, mmdomain.Status{Queued: true, QueueSize: 1}, f.queues.Status(mmdomain.Scrimmage, "c"))
}

func TestJoiningOneQueueLeavesTheOther(t *testing.T) {
	a := user("a", 1, 0)
	f := newQueueFixture(a)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Ranked, a)
	require.NoError(t, err)
	_, err = f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)

	assert.False(t, f.queues.Status(mmdomain.Ranked, "a").Queued)
	assert.True(t, f.queues.Status(mmdomain.Scrimmage, "a").Queued)
}

func TestReenqueueIsNoop(t *testing.T) {
	a := user("a", 1, 0)
	f := newQueueFixture(a)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)
	res, err := f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)

	assert.True(t, res.Queued)
	assert.Empty(t, f.pairs.pairs)
	assert.Equal(t, 1, f.queues.Status(mmdomain.Scrimmage, "a").QueueSize)
}

func TestOpponentLookupFailureConsumesBoth(t *testing.T) {
	a, b := user("a", 1, 0), user("b", 1, 0)
	f := newQueueFixture(a, b)
	ctx := context.Background()

	_, err := f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)

	f.profiles.err = errors.New("db down")
	_, err = f.queues.Enqueue(ctx, mmdomain.Scrimmage, b)
	require.Error(t, err)

	assert.Empty(t, f.pairs.pairs)
	assert.Equal(t, 0, f.queues.Status(mmdomain.Scrimmage, "a").QueueSize)
	assert.False(t, f.queues.Status(mmdomain.Scrimmage, "b").Queued)
}

func TestDequeue(t *testing.T) {
	a := user("a", 1, 0)
	f := newQueueFixture(a)
	ctx := context.Background()

	assert.False(t, f.queues.Dequeue(mmdomain.Ranked, "a"))

	_, err := f.queues.Enqueue(ctx, mmdomain.Ranked, a)
	require.NoError(t, err)
	assert.True(t, f.queues.Dequeue(mmdomain.Ranked, "a"))
	assert.False(t, f.queues.Status(mmdomain.Ranked, "a").Queued)

	_, err = f.queues.Enqueue(ctx, mmdomain.Scrimmage, a)
	require.NoError(t, err)
	assert.True(t, f.queues.DequeueAll("a"))
	assert.False(t, f.queues.DequeueAll("a"))
	assert.Equal(t, 0, f.queues.Status(mmdomain.Scrimmage, "a").QueueSize)
}

func TestParseKind(t *testing.T) {
	k, err := mmdomain.ParseKind("ranked")
	require.NoError(t, err)
	assert.Equal(t, mmdomain.Ranked, k)

	_, err = mmdomain.ParseKind("casual")
	assert.Error(t, err)
}
