package scheduler

import (
	"log"
	"sync"
	"time"
)

// Evictor drops ended matches older than a cutoff.
type Evictor interface {
	EvictEnded(before time.Time) int
}

// MatchEvictionScheduler periodically removes ended matches from memory.
type MatchEvictionScheduler struct {
	registry  Evictor
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewMatchEvictionScheduler(registry Evictor, interval, retention time.Duration) *MatchEvictionScheduler {
	return &MatchEvictionScheduler{
		registry:  registry,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Enabled reports whether both interval and retention are set.
func (s *MatchEvictionScheduler) Enabled() bool {
	return s.interval > 0 && s.retention > 0
}

// Start begins the scheduler loop. It does nothing unless Enabled.
func (s *MatchEvictionScheduler) Start() {
	if !s.Enabled() {
		log.Println("[EvictionScheduler] Retention not configured, scheduler disabled")
		return
	}

	log.Printf("[EvictionScheduler] Starting (interval: %s, retention: %s)", s.interval, s.retention)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.evict()
			case <-s.stopChan:
				log.Println("[EvictionScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

func (s *MatchEvictionScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *MatchEvictionScheduler) evict() int {
	n := s.registry.EvictEnded(s.now().Add(-s.retention))
	if n > 0 {
		log.Printf("[EvictionScheduler] Evicted %d ended matches", n)
	}
	return n
}
