package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	gamedomain "connect4-backend/internal/game/domain"
)

// CounterStore updates the win/loss counters of a user.
type CounterStore interface {
	IncrementVictories(ctx context.Context, userID string) error
	IncrementDefeats(ctx context.Context, userID string) error
}

// HistoryStore persists ended matches.
type HistoryStore interface {
	Persist(ctx context.Context, result gamedomain.Result) error
}

// ResultPublisher streams results to downstream consumers.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result gamedomain.Result) error
}

// RankingRefresher recomputes cached rankings for the given users.
type RankingRefresher interface {
	Refresh(ctx context.Context, userIDs ...string) error
}

// ResultWorkerService applies match results to durable stores in the background.
type ResultWorkerService struct {
	counters  CounterStore
	history   HistoryStore
	publisher ResultPublisher
	rankings  RankingRefresher

	jobQueue    chan gamedomain.Result
	workerWg    sync.WaitGroup
	pending     sync.WaitGroup
	workerCount int
	timeout     time.Duration
	started     bool
	stopped     bool
	mu          sync.Mutex
}

func NewResultWorkerService(counters CounterStore, history HistoryStore, workerCount int) *ResultWorkerService {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &ResultWorkerService{
		counters:    counters,
		history:     history,
		jobQueue:    make(chan gamedomain.Result, 256),
		workerCount: workerCount,
		timeout:     10 * time.Second,
	}
}

// SetPublisher enables streaming results to Pub/Sub.
func (s *ResultWorkerService) SetPublisher(p ResultPublisher) {
	s.publisher = p
}

// SetRankingRefresher enables leaderboard cache updates.
func (s *ResultWorkerService) SetRankingRefresher(r RankingRefresher) {
	s.rankings = r
}

func (s *ResultWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	log.Printf("[ResultWorker] Started %d workers", s.workerCount)
}

// Stop drains the queue and waits for in-flight results.
func (s *ResultWorkerService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.jobQueue)
	started := s.started
	s.mu.Unlock()

	if !started {
		for job := range s.jobQueue {
			s.process(job)
		}
	}
	s.workerWg.Wait()
	s.pending.Wait()
	log.Println("[ResultWorker] All workers stopped")
}

func (s *ResultWorkerService) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		s.process(job)
	}

	log.Printf("[ResultWorker] Worker %d stopped", id)
}

// Submit hands a result to the workers without blocking the caller. When the queue
// is full or the service is stopped the result is processed on its own goroutine.
func (s *ResultWorkerService) Submit(result gamedomain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		select {
		case s.jobQueue <- result:
			return
		default:
			log.Printf("[ResultWorker] Queue full, processing match %s inline", result.MatchID)
		}
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.process(result)
	}()
}

func (s *ResultWorkerService) process(result gamedomain.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var touched []string
	if result.WinnerID != "" && result.LoserID != "" {
		if err := s.counters.IncrementVictories(ctx, result.WinnerID); err != nil {
			log.Printf("[ResultWorker] Error incrementing victories of %s: %v", result.WinnerID, err)
		}
		if err := s.counters.IncrementDefeats(ctx, result.LoserID); err != nil {
			log.Printf("[ResultWorker] Error incrementing defeats of %s: %v", result.LoserID, err)
		}
		touched = []string{result.WinnerID, result.LoserID}
	}

	if err := s.history.Persist(ctx, result); err != nil {
		log.Printf("[ResultWorker] Error persisting match %s: %v", result.MatchID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishResult(ctx, result); err != nil {
			log.Printf("[ResultWorker] Error publishing match %s: %v", result.MatchID, err)
		}
	}

	if s.rankings != nil && len(touched) > 0 {
		if err := s.rankings.Refresh(ctx, touched...); err != nil {
			log.Printf("[ResultWorker] Error refreshing rankings: %v", err)
		}
	}

	log.Printf("[ResultWorker] Processed match %s", result.MatchID)
}

var _ ResultSink = (*ResultWorkerService)(nil)
