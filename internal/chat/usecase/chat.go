package usecase

import (
	"context"
	"fmt"
	"strings"

	"connect4-backend/internal/apperror"
	authdomain "connect4-backend/internal/auth/domain"
	chatdomain "connect4-backend/internal/chat/domain"
	"connect4-backend/internal/chat/repository"
	"connect4-backend/internal/events"
	gamedomain "connect4-backend/internal/game/domain"
	notificationdomain "connect4-backend/internal/notification/domain"
	notification "connect4-backend/internal/notification/usecase"
)

// FriendChecker answers whether two users are friends.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
}

// MatchReader looks up live matches.
type MatchReader interface {
	GetMatch(matchID string) (*gamedomain.Match, error)
}

// MessageNotifier issues private-message notifications.
type MessageNotifier interface {
	Notify(t notificationdomain.Type, sender notification.Sender, receiverID string) notificationdomain.Notification
}

type ChatService struct {
	messages repository.MessageRepository
	friends  FriendChecker
	matches  MatchReader
	notifier MessageNotifier
	fanout   events.Fanout
}

func NewChatService(messages repository.MessageRepository, friends FriendChecker, matches MatchReader, notifier MessageNotifier, fanout events.Fanout) *ChatService {
	return &ChatService{
		messages: messages,
		friends:  friends,
		matches:  matches,
		notifier: notifier,
		fanout:   fanout,
	}
}

func (s *ChatService) canTalk(ctx context.Context, caller *authdomain.Principal, peerID string) error {
	if caller.Privileged() {
		return nil
	}
	ok, err := s.friends.AreFriends(ctx, caller.ID, peerID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if !ok {
		return fmt.Errorf("user is not your friend: %w", apperror.ErrForbidden)
	}
	return nil
}

// Conversation returns the private messages between caller and peerID.
func (s *ChatService) Conversation(ctx context.Context, caller *authdomain.Principal, peerID string) ([]chatdomain.Message, error) {
	if err := s.canTalk(ctx, caller, peerID); err != nil {
		return nil, err
	}
	return s.messages.Conversation(ctx, caller.ID, peerID)
}

// SendPrivate stores a message to peerID and notifies the peer.
func (s *ChatService) SendPrivate(ctx context.Context, caller *authdomain.Principal, peerID, content string) (*chatdomain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", apperror.ErrInvalidRequest)
	}
	if peerID == caller.ID {
		return nil, apperror.ErrInvalidRequest
	}
	if err := s.canTalk(ctx, caller, peerID); err != nil {
		return nil, err
	}

	msg, err := s.messages.Append(ctx, caller.ID, peerID, content)
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	s.fanout.Emit(peerID, events.ChatMessage, map[string]string{"peerId": caller.ID})
	s.notifier.Notify(notificationdomain.TypePrivateMessage, notification.Sender{ID: caller.ID, Username: caller.Username}, peerID)
	return msg, nil
}

// MatchMessages returns the chat of a match. Players only see what players wrote so
// spectators cannot coach them; spectators see everything.
func (s *ChatService) MatchMessages(ctx context.Context, caller *authdomain.Principal, matchID string) ([]chatdomain.Message, error) {
	m, err := s.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	switch {
	case m.IsPlayer(caller.ID):
		return s.messages.MatchMessages(ctx, matchID, []string{m.PlayerOne.ID, m.PlayerTwo.ID})
	case m.IsSpectator(caller.ID):
		return s.messages.MatchMessages(ctx, matchID, nil)
	default:
		return nil, fmt.Errorf("not a player nor a spectator: %w", apperror.ErrForbidden)
	}
}

// SendMatch posts to the chat of a match the caller plays or watches.
func (s *ChatService) SendMatch(ctx context.Context, caller *authdomain.Principal, matchID, content string) (*chatdomain.Message, error) {
	m, err := s.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if !m.IsPlayer(caller.ID) && !m.IsSpectator(caller.ID) {
		return nil, fmt.Errorf("not a player nor a spectator: %w", apperror.ErrForbidden)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", apperror.ErrInvalidRequest)
	}

	msg, err := s.messages.Append(ctx, caller.ID, matchID, content)
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	s.fanout.Emit(matchID, events.ChatMessage, events.MatchPayload{MatchID: matchID})
	return msg, nil
}
