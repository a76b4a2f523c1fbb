package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// User is the durable profile of a player.
type User struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	Username  string      `json:"username" gorm:"uniqueIndex;not null"`
	Roles     StringArray `json:"roles" gorm:"type:text"`
	Victories int         `json:"victories" gorm:"not null;default:0"`
	Defeats   int         `json:"defeats" gorm:"not null;default:0"`
	Avatar    string      `json:"avatar,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Ratio is the skill estimate used by ranked matchmaking and the leaderboard.
func (u *User) Ratio() float64 {
	return float64(u.Victories) / float64(u.Defeats+1)
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// Friendship is one direction of a mutual friendship. Both directions are stored.
type Friendship struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	FriendID  string    `json:"friend_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
