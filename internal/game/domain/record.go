package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MoveLog stores the column sequence of a match as JSON text.
type MoveLog []int

func (l MoveLog) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *MoveLog) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = MoveLog{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported MoveLog source %T", value)
	}
}

// MatchRecord is the durable history entry of an ended match. The board is rebuilt
// from Moves with Replay.
type MatchRecord struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	PlayerOneID       string    `json:"player_one_id" gorm:"index;not null"`
	PlayerOneUsername string    `json:"player_one_username"`
	PlayerTwoID       string    `json:"player_two_id" gorm:"index;not null"`
	PlayerTwoUsername string    `json:"player_two_username"`
	WinnerID          string    `json:"winner_id"`
	Tie               bool      `json:"tie"`
	Moves             MoveLog   `json:"moves" gorm:"type:text"`
	StartedAt         time.Time `json:"started_at"`
	EndedAt           time.Time `json:"ended_at" gorm:"index"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewMatchRecord converts a result into its history row.
func NewMatchRecord(r Result) *MatchRecord {
	return &MatchRecord{
		ID:                r.MatchID,
		PlayerOneID:       r.PlayerOne.ID,
		PlayerOneUsername: r.PlayerOne.Username,
		PlayerTwoID:       r.PlayerTwo.ID,
		PlayerTwoUsername: r.PlayerTwo.Username,
		WinnerID:          r.WinnerID,
		Tie:               r.Tie,
		Moves:             MoveLog(r.Moves),
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
	}
}
