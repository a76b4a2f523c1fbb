package domain

import (
	"time"

	"connect4-backend/internal/apperror"
)

type Kind string

const (
	Ranked    Kind = "ranked"
	Scrimmage Kind = "scrimmage"
)

// ParseKind validates a queue name coming from a request.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Ranked, Scrimmage:
		return Kind(s), nil
	default:
		return "", apperror.ErrInvalidRequest
	}
}

// Other returns the queue a user is evicted from when joining k.
func (k Kind) Other() Kind {
	if k == Ranked {
		return Scrimmage
	}
	return Ranked
}

// Entry is a user waiting for an opponent.
type Entry struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Ratio    float64   `json:"ratio"`
	JoinedAt time.Time `json:"joined_at"`
	Seq      uint64    `json:"-"`
}

// Before orders entries by wait time, oldest first.
func (e Entry) Before(o Entry) bool {
	if !e.JoinedAt.Equal(o.JoinedAt) {
		return e.JoinedAt.Before(o.JoinedAt)
	}
	return e.Seq < o.Seq
}

// Status is what a user sees about a queue.
type Status struct {
	Queued    bool `json:"queued"`
	QueueSize int  `json:"queue_size"`
}

// Sizes is broadcast whenever a queue grows or shrinks.
type Sizes struct {
	Ranked    int `json:"ranked"`
	Scrimmage int `json:"scrimmage"`
}
