package repository

import (
	"context"
	"time"

	chatdomain "connect4-backend/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository is the durable chat store.
type MessageRepository interface {
	Append(ctx context.Context, sender, receiver, content string) (*chatdomain.Message, error)
	Conversation(ctx context.Context, userID, peerID string) ([]chatdomain.Message, error)
	MatchMessages(ctx context.Context, matchID string, senders []string) ([]chatdomain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Append(ctx context.Context, sender, receiver, content string) (*chatdomain.Message, error) {
	msg := &chatdomain.Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Receiver:  receiver,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (r *messageRepository) Conversation(ctx context.Context, userID, peerID string) ([]chatdomain.Message, error) {
	var msgs []chatdomain.Message
	err := r.db.WithContext(ctx).
		Where("(sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)", userID, peerID, peerID, userID).
		Order("timestamp").
		Find(&msgs).Error
	return msgs, err
}

// MatchMessages returns the chat of a match, oldest first. A non-empty senders list
// restricts the result to those authors.
func (r *messageRepository) MatchMessages(ctx context.Context, matchID string, senders []string) ([]chatdomain.Message, error) {
	var msgs []chatdomain.Message
	q := r.db.WithContext(ctx).Where("receiver = ?", matchID)
	if len(senders) > 0 {
		q = q.Where("sender IN ?", senders)
	}
	err := q.Order("timestamp").Find(&msgs).Error
	return msgs, err
}
