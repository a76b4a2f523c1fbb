package repository

import (
	"context"
	"errors"

	"connect4-backend/internal/apperror"
	userdomain "connect4-backend/internal/user/domain"

	"gorm.io/gorm"
)

// UserRepository is the durable user directory.
type UserRepository interface {
	Create(ctx context.Context, user *userdomain.User) error
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
	FindByUsername(ctx context.Context, username string) (*userdomain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	AddFriendship(ctx context.Context, userID, otherID string) error
	IncrementVictories(ctx context.Context, userID string) error
	IncrementDefeats(ctx context.Context, userID string) error
	TopByRatio(ctx context.Context, limit int) ([]userdomain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error) {
	var users []userdomain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("username").Find(&users).Error
	return users, err
}

func (r *userRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&userdomain.Friendship{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("friend_id", &ids).Error
	return ids, err
}

func (r *userRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userdomain.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

// AddFriendship stores both directions in one transaction. It fails with
// apperror.ErrConflict when the users are already friends.
func (r *userRepository) AddFriendship(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return apperror.ErrInvalidRequest
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userdomain.Friendship{}).
			Where("user_id = ? AND friend_id = ?", userID, otherID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.ErrConflict
		}
		rows := []userdomain.Friendship{
			{UserID: userID, FriendID: otherID},
			{UserID: otherID, FriendID: userID},
		}
		return tx.Create(&rows).Error
	})
}

func (r *userRepository) IncrementVictories(ctx context.Context, userID string) error {
	return r.increment(ctx, userID, "victories")
}

func (r *userRepository) IncrementDefeats(ctx context.Context, userID string) error {
	return r.increment(ctx, userID, "defeats")
}

func (r *userRepository) increment(ctx context.Context, userID, column string) error {
	res := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// TopByRatio orders users by victories / (defeats + 1), best first.
func (r *userRepository) TopByRatio(ctx context.Context, limit int) ([]userdomain.User, error) {
	var users []userdomain.User
	err := r.db.WithContext(ctx).
		Order("(victories * 1.0) / (defeats + 1) DESC").
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, err
}
