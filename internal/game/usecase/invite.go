package usecase

import (
	"context"
	"fmt"

	"connect4-backend/internal/apperror"
	authdomain "connect4-backend/internal/auth/domain"
	gamedomain "connect4-backend/internal/game/domain"
	notificationdomain "connect4-backend/internal/notification/domain"
	notification "connect4-backend/internal/notification/usecase"
	userdomain "connect4-backend/internal/user/domain"
)

// Directory is the part of the user directory invitations depend on.
type Directory interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
}

// InviteNotifier issues and redeems invitations.
type InviteNotifier interface {
	Notify(t notificationdomain.Type, sender notification.Sender, receiverID string) notificationdomain.Notification
	Redeem(userID, id string, t notificationdomain.Type) (notificationdomain.Notification, error)
}

// MatchCreator starts a match between two players.
type MatchCreator interface {
	CreateMatch(ctx context.Context, a, b gamedomain.Player) (*gamedomain.Match, error)
}

// InviteService turns accepted game invitations into matches.
type InviteService struct {
	users    Directory
	notifier InviteNotifier
	matches  MatchCreator
}

func NewInviteService(users Directory, notifier InviteNotifier, matches MatchCreator) *InviteService {
	return &InviteService{
		users:    users,
		notifier: notifier,
		matches:  matches,
	}
}

// Invite sends a game invitation from sender to one of its friends.
func (s *InviteService) Invite(ctx context.Context, sender *authdomain.Principal, receiverID string) error {
	if receiverID == "" || receiverID == sender.ID {
		return apperror.ErrInvalidPlayers
	}
	friends, err := s.users.AreFriends(ctx, sender.ID, receiverID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if !friends {
		return fmt.Errorf("user is not your friend: %w", apperror.ErrForbidden)
	}
	s.notifier.Notify(notificationdomain.TypeGameInvite, notification.Sender{ID: sender.ID, Username: sender.Username}, receiverID)
	return nil
}

// Respond answers a delivered invitation. Only the stored invitation is trusted, so
// the sender cannot be forged. Declining consumes the invitation and returns no match.
func (s *InviteService) Respond(ctx context.Context, receiver *authdomain.Principal, notificationID string, accept bool) (*gamedomain.Match, error) {
	invite, err := s.notifier.Redeem(receiver.ID, notificationID, notificationdomain.TypeGameInvite)
	if err != nil {
		return nil, err
	}
	if !accept {
		return nil, nil
	}

	sender, err := s.users.FindByID(ctx, invite.Sender)
	if err != nil {
		return nil, fmt.Errorf("load inviter: %w", err)
	}
	if sender == nil {
		return nil, apperror.ErrNotFound
	}

	return s.matches.CreateMatch(ctx,
		gamedomain.Player{ID: receiver.ID, Username: receiver.Username},
		gamedomain.Player{ID: sender.ID, Username: sender.Username},
	)
}
