package domain

import "time"

type Type string

const (
	TypeFriendRequest  Type = "friend-request"
	TypeGameInvite     Type = "game-invite"
	TypePrivateMessage Type = "private-message"
)

// Notification is an ephemeral message addressed to a user. Friend requests and game
// invites can be answered once before they expire.
type Notification struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	Sender         string    `json:"sender"`
	SenderUsername string    `json:"sender_username"`
	Receiver       string    `json:"receiver"`
	Expiry         time.Time `json:"expiry"`
}

// Answerable reports whether the receiver may respond to n.
func (n Notification) Answerable() bool {
	return n.Type == TypeFriendRequest || n.Type == TypeGameInvite
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.Expiry)
}
