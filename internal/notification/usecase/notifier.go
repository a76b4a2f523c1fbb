package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	authdomain "connect4-backend/internal/auth/domain"
	"connect4-backend/internal/events"
	"connect4-backend/internal/notification/domain"
	"connect4-backend/pkg/fcm"
)

// DefaultTTL is how long an invitation can be answered.
const DefaultTTL = 10 * time.Minute

// OnlineChecker reports whether a user has a live connection.
type OnlineChecker interface {
	Online(userID string) bool
}

// TokenStore lists and prunes push device tokens.
type TokenStore interface {
	GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error)
	DeleteToken(ctx context.Context, token string) error
}

// Pusher delivers push notifications to devices and returns rejected tokens.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// Notifier issues notifications and routes them to the receiver: a socket event
// when the receiver is online, a push notification otherwise.
type Notifier struct {
	ledger   *Ledger
	presence OnlineChecker
	fanout   events.Fanout
	tokens   TokenStore
	pusher   Pusher
	ttl      time.Duration
	pushes   sync.WaitGroup
}

func NewNotifier(ledger *Ledger, presence OnlineChecker, fanout events.Fanout, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		ledger:   ledger,
		presence: presence,
		fanout:   fanout,
		ttl:      ttl,
	}
}

// SetPush enables push delivery for offline receivers.
func (n *Notifier) SetPush(tokens TokenStore, pusher Pusher) {
	n.tokens = tokens
	n.pusher = pusher
}

// Notify issues a notification of type t from sender to receiverID.
func (n *Notifier) Notify(t domain.Type, sender Sender, receiverID string) domain.Notification {
	note := n.ledger.Issue(t, sender, receiverID, n.ttl)

	if n.presence.Online(receiverID) {
		n.fanout.Emit(receiverID, events.NotificationAvailable, map[string]string{"type": string(t)})
		return note
	}

	if n.pusher == nil || n.tokens == nil {
		return note
	}
	n.pushes.Add(1)
	go func() {
		defer n.pushes.Done()
		n.push(note)
	}()
	return note
}

// Wait blocks until in-flight push deliveries finish.
func (n *Notifier) Wait() {
	n.pushes.Wait()
}

// Drain returns the pending notifications of userID.
func (n *Notifier) Drain(userID string) []domain.Notification {
	return n.ledger.Drain(userID)
}

// Redeem consumes a delivered notification addressed to userID.
func (n *Notifier) Redeem(userID, id string, t domain.Type) (domain.Notification, error) {
	return n.ledger.Redeem(userID, id, t)
}

func (n *Notifier) push(note domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokens, err := n.tokens.GetTokensByUserID(ctx, note.Receiver)
	if err != nil {
		log.Printf("[FCM] Error getting FCM tokens for user %s: %v", note.Receiver, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := n.pusher.SendToDevices(ctx, tokenStrings, pushContent(note))
	if err != nil {
		log.Printf("[FCM] Error sending %s notification to %s: %v", note.Type, note.Receiver, err)
		return
	}

	for _, token := range failedTokens {
		if err := n.tokens.DeleteToken(ctx, token); err != nil {
			log.Printf("[FCM] Error deleting dead token: %v", err)
		}
	}
}

func pushContent(note domain.Notification) fcm.NotificationData {
	data := fcm.NotificationData{
		Data: map[string]string{
			"type":            string(note.Type),
			"notification_id": note.ID,
			"sender":          note.Sender,
		},
		ClickAction: "/notifications",
	}
	switch note.Type {
	case domain.TypeFriendRequest:
		data.Title = "Friend request"
		data.Body = fmt.Sprintf("%s wants to be your friend", note.SenderUsername)
	case domain.TypeGameInvite:
		data.Title = "Game invite"
		data.Body = fmt.Sprintf("%s challenged you to a match", note.SenderUsername)
	case domain.TypePrivateMessage:
		data.Title = "New message"
		data.Body = fmt.Sprintf("%s sent you a message", note.SenderUsername)
		data.ClickAction = "/messages/" + note.Sender
	}
	return data
}
