package usecase

import (
	"context"
	"fmt"

	"connect4-backend/internal/apperror"
	authdomain "connect4-backend/internal/auth/domain"
	frienddomain "connect4-backend/internal/friend/domain"
	notificationdomain "connect4-backend/internal/notification/domain"
	notification "connect4-backend/internal/notification/usecase"
	"connect4-backend/internal/presence"
	userdomain "connect4-backend/internal/user/domain"
	"connect4-backend/internal/user/repository"
)

// RequestNotifier issues and redeems friend requests.
type RequestNotifier interface {
	Notify(t notificationdomain.Type, sender notification.Sender, receiverID string) notificationdomain.Notification
	Redeem(userID, id string, t notificationdomain.Type) (notificationdomain.Notification, error)
}

type FriendService struct {
	users    repository.UserRepository
	presence *presence.Store
	notifier RequestNotifier
}

func NewFriendService(users repository.UserRepository, store *presence.Store, notifier RequestNotifier) *FriendService {
	return &FriendService{
		users:    users,
		presence: store,
		notifier: notifier,
	}
}

func (s *FriendService) toFriend(u *userdomain.User) frienddomain.Friend {
	e, _ := s.presence.Get(u.ID)
	return frienddomain.Friend{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Online:    e.Online,
		Game:      e.CurrentMatchID,
		Victories: u.Victories,
		Defeats:   u.Defeats,
	}
}

// List returns the caller's friends with their presence.
func (s *FriendService) List(ctx context.Context, caller *authdomain.Principal) ([]frienddomain.Friend, error) {
	ids, err := s.users.FriendIDs(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	out := make([]frienddomain.Friend, 0, len(users))
	for i := range users {
		out = append(out, s.toFriend(&users[i]))
	}
	return out, nil
}

// Detail returns one friend. Non-friends are hidden.
func (s *FriendService) Detail(ctx context.Context, caller *authdomain.Principal, friendID string) (*frienddomain.Friend, error) {
	ok, err := s.users.AreFriends(ctx, caller.ID, friendID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("user is not your friend: %w", apperror.ErrForbidden)
	}
	u, err := s.users.FindByID(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("load friend: %w", err)
	}
	if u == nil {
		return nil, apperror.ErrNotFound
	}
	f := s.toFriend(u)
	return &f, nil
}

// Request sends a friend request to the user called username.
func (s *FriendService) Request(ctx context.Context, caller *authdomain.Principal, username string) error {
	receiver, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if receiver == nil {
		return apperror.ErrNotFound
	}
	if receiver.ID == caller.ID {
		return apperror.ErrInvalidRequest
	}
	already, err := s.users.AreFriends(ctx, caller.ID, receiver.ID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if already {
		return fmt.Errorf("already friends: %w", apperror.ErrConflict)
	}

	s.notifier.Notify(notificationdomain.TypeFriendRequest, notification.Sender{ID: caller.ID, Username: caller.Username}, receiver.ID)
	return nil
}

// Respond answers a delivered friend request. Accepting makes the users friends.
func (s *FriendService) Respond(ctx context.Context, caller *authdomain.Principal, notificationID string, accept bool) error {
	request, err := s.notifier.Redeem(caller.ID, notificationID, notificationdomain.TypeFriendRequest)
	if err != nil {
		return err
	}
	if !accept {
		return nil
	}
	return s.users.AddFriendship(ctx, request.Sender, caller.ID)
}
