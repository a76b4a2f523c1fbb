package usecase

import (
	"sync"
	"time"

	"connect4-backend/internal/apperror"
	"connect4-backend/internal/notification/domain"

	"github.com/google/uuid"
)

// Sender is the identity a notification is issued on behalf of.
type Sender struct {
	ID       string
	Username string
}

// Ledger holds undelivered notifications per receiver and, once delivered, the
// answerable ones until they are redeemed or expire.
type Ledger struct {
	mu    sync.Mutex
	inbox map[string][]domain.Notification
	sent  map[string][]domain.Notification
	now   func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		inbox: make(map[string][]domain.Notification),
		sent:  make(map[string][]domain.Notification),
		now:   time.Now,
	}
}

// SetClock replaces the time source.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Issue queues a notification for receiverID expiring after ttl.
func (l *Ledger) Issue(t domain.Type, sender Sender, receiverID string, ttl time.Duration) domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := domain.Notification{
		ID:             uuid.New().String(),
		Type:           t,
		Sender:         sender.ID,
		SenderUsername: sender.Username,
		Receiver:       receiverID,
		Expiry:         l.now().Add(ttl),
	}
	l.inbox[receiverID] = append(l.inbox[receiverID], n)
	return n
}

// Drain returns and clears the inbox of userID. Expired entries are dropped, both
// from the result and from the sent ledger. Answerable entries move to the sent
// ledger so they can be redeemed later.
func (l *Ledger) Drain(userID string) []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	sent := l.sent[userID][:0]
	for _, n := range l.sent[userID] {
		if !n.Expired(now) {
			sent = append(sent, n)
		}
	}

	pending := l.inbox[userID]
	delete(l.inbox, userID)
	out := make([]domain.Notification, 0, len(pending))
	for _, n := range pending {
		if n.Expired(now) {
			continue
		}
		out = append(out, n)
		if n.Answerable() {
			sent = append(sent, n)
		}
	}

	if len(sent) == 0 {
		delete(l.sent, userID)
	} else {
		l.sent[userID] = sent
	}
	return out
}

// pendingSent reports how many delivered notifications userID can still redeem.
func (l *Ledger) pendingSent(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sent[userID])
}

// Validate consumes n from the sent ledger of userID. It reports false if n was never
// delivered, was already consumed, or has expired.
func (l *Ledger) Validate(userID string, n domain.Notification) bool {
	_, err := l.Redeem(userID, n.ID, n.Type)
	return err == nil
}

// Redeem consumes the delivered notification id and returns the stored copy. Expired
// entries met along the way are purged.
func (l *Ledger) Redeem(userID, id string, t domain.Type) (domain.Notification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var (
		found domain.Notification
		hit   bool
	)
	kept := l.sent[userID][:0]
	for _, n := range l.sent[userID] {
		if n.ID == id && n.Type == t {
			found, hit = n, true
			continue
		}
		if n.Expired(now) {
			continue
		}
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		delete(l.sent, userID)
	} else {
		l.sent[userID] = kept
	}

	if !hit {
		return domain.Notification{}, apperror.ErrNotFound
	}
	if found.Expired(now) {
		return domain.Notification{}, apperror.ErrExpired
	}
	return found, nil
}
