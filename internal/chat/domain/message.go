package domain

import "time"

// Message is a chat line. Receiver is a user id for private messages and a match id
// for match chat.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Sender    string    `json:"sender" gorm:"index;not null"`
	Receiver  string    `json:"receiver" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}
