package presence

import "sync"

// Entry is what the service knows about a user's connection.
type Entry struct {
	Online         bool   `json:"online"`
	CurrentMatchID string `json:"game"`
}

// Store maps user ids to presence entries.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

func (s *Store) Set(userID string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = e
}

func (s *Store) Get(userID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID]
	return e, ok
}

// Online reports whether userID has a live connection.
func (s *Store) Online(userID string) bool {
	e, _ := s.Get(userID)
	return e.Online
}

// Update applies fn to the entry of userID under the store lock.
func (s *Store) Update(userID string, fn func(*Entry)) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[userID]
	fn(&e)
	s.entries[userID] = e
	return e
}
