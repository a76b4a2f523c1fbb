package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type evictorFunc func(time.Time) int

func (f evictorFunc) EvictEnded(before time.Time) int { return f(before) }

func TestEvictUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var got time.Time
	s := NewMatchEvictionScheduler(evictorFunc(func(before time.Time) int {
		got = before
		return 2
	}), time.Minute, time.Hour)
	s.now = func() time.Time { return now }

	assert.Equal(t, 2, s.evict())
	assert.Equal(t, now.Add(-time.Hour), got)
}

func TestDisabledWithoutRetention(t *testing.T) {
	s := NewMatchEvictionScheduler(evictorFunc(func(time.Time) int {
		t.Fatal("evictor must not run")
		return 0
	}), time.Millisecond, 0)

	assert.False(t, s.Enabled())
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
}

func TestTickerRunsUntilStopped(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	s := NewMatchEvictionScheduler(evictorFunc(func(time.Time) int {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return 0
	}), time.Millisecond, time.Hour)

	s.Start()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()
}
