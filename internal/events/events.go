package events

// Event names sent over the real-time transport.
const (
	MatchCreated          = "match created"
	MatchUpdated          = "match updated"
	SpectatorJoined       = "spectator joined"
	SpectatorLeft         = "spectator left"
	QueueSizeChanged      = "queue size changed"
	NotificationAvailable = "notification available"
	FriendPresenceChanged = "friend presence changed"
	ChatMessage           = "chat message"
)

// Fanout delivers events to named topics. A topic is either a user id, which every
// connection of that user is subscribed to, or a match id.
type Fanout interface {
	Emit(topic, event string, payload any)
	Broadcast(event string, payload any)
	Join(userID, topic string)
	Leave(userID, topic string)
	// Close removes every member from topic.
	Close(topic string)
}

// MatchPayload identifies the match an event refers to.
type MatchPayload struct {
	MatchID string `json:"matchId"`
}

type PresencePayload struct {
	ID     string `json:"id"`
	Online bool   `json:"online"`
	Game   string `json:"game"`
}

type UserPayload struct {
	UserID string `json:"userId"`
}
