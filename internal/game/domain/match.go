package domain

import (
	"time"

	"connect4-backend/internal/apperror"
)

// TieName is reported as the winner name of a drawn match.
const TieName = "Tie!"

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// Player identifies a participant of a match.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Match is the live record of a game between two players.
type Match struct {
	ID            string     `json:"id"`
	PlayerOne     Player     `json:"player_one"`
	PlayerTwo     Player     `json:"player_two"`
	Board         *Board     `json:"board"`
	PlayerOneTurn bool       `json:"player_one_turn"`
	Winner        string     `json:"winner,omitempty"`
	WinnerName    string     `json:"winner_name,omitempty"`
	Tie           bool       `json:"tie"`
	Status        Status     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at"`
	Spectators    []string   `json:"spectators"`
}

// NewMatch builds a pending match. Player one moves first once started.
func NewMatch(id string, one, two Player) *Match {
	return &Match{
		ID:            id,
		PlayerOne:     one,
		PlayerTwo:     two,
		Board:         NewBoard(),
		PlayerOneTurn: true,
		Status:        StatusPending,
		Spectators:    []string{},
	}
}

// Start moves a pending match to active.
func (m *Match) Start(now time.Time) {
	if m.Status != StatusPending {
		return
	}
	m.Status = StatusActive
	m.StartedAt = now
}

func (m *Match) Ended() bool {
	return m.Status == StatusEnded
}

func (m *Match) IsPlayer(userID string) bool {
	return userID != "" && (m.PlayerOne.ID == userID || m.PlayerTwo.ID == userID)
}

func (m *Match) IsSpectator(userID string) bool {
	for _, id := range m.Spectators {
		if id == userID {
			return true
		}
	}
	return false
}

// CoinOf returns the coin played by userID, or Empty for non-players.
func (m *Match) CoinOf(userID string) Coin {
	switch userID {
	case m.PlayerOne.ID:
		return First
	case m.PlayerTwo.ID:
		return Second
	default:
		return Empty
	}
}

// Current returns the player whose turn it is.
func (m *Match) Current() Player {
	if m.PlayerOneTurn {
		return m.PlayerOne
	}
	return m.PlayerTwo
}

// Move plays column for userID. It reports whether this move ended the match.
// Moves on an ended match are ignored.
func (m *Match) Move(userID string, column int, now time.Time) (bool, error) {
	if m.Ended() {
		return false, nil
	}
	if m.Status != StatusActive || m.Current().ID != userID {
		return false, apperror.ErrForbidden
	}
	coin := m.CoinOf(userID)
	if !m.Board.Drop(column, coin) {
		return false, apperror.ErrInvalidMove
	}
	m.PlayerOneTurn = !m.PlayerOneTurn

	switch winner := m.Board.CheckWinner(); {
	case winner != Empty:
		p := m.PlayerOne
		if winner == Second {
			p = m.PlayerTwo
		}
		m.Winner = p.ID
		m.WinnerName = p.Username
	case m.Board.Full():
		m.Tie = true
		m.WinnerName = TieName
	default:
		return false, nil
	}
	m.Status = StatusEnded
	ended := now
	m.EndedAt = &ended
	return true, nil
}

// AddSpectator reports whether userID was newly added.
func (m *Match) AddSpectator(userID string) bool {
	if m.IsSpectator(userID) {
		return false
	}
	m.Spectators = append(m.Spectators, userID)
	return true
}

// RemoveSpectator reports whether userID was present.
func (m *Match) RemoveSpectator(userID string) bool {
	for i, id := range m.Spectators {
		if id == userID {
			m.Spectators = append(m.Spectators[:i], m.Spectators[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy safe to hand out of the owning lock.
func (m *Match) Snapshot() *Match {
	out := *m
	out.Board = m.Board.Clone()
	out.Spectators = append([]string{}, m.Spectators...)
	if m.EndedAt != nil {
		t := *m.EndedAt
		out.EndedAt = &t
	}
	return &out
}

// Result is the outcome of an ended match handed to durable stores.
type Result struct {
	MatchID   string              `json:"match_id"`
	PlayerOne Player              `json:"player_one"`
	PlayerTwo Player              `json:"player_two"`
	WinnerID  string              `json:"winner_id,omitempty"`
	LoserID   string              `json:"loser_id,omitempty"`
	Tie       bool                `json:"tie"`
	Moves     []int               `json:"moves"`
	Board     [Rows][Columns]Coin `json:"board"`
	StartedAt time.Time           `json:"started_at"`
	EndedAt   time.Time           `json:"ended_at"`
}

// Result summarises an ended match. It must only be called once Ended is true.
func (m *Match) Result() Result {
	r := Result{
		MatchID:   m.ID,
		PlayerOne: m.PlayerOne,
		PlayerTwo: m.PlayerTwo,
		WinnerID:  m.Winner,
		Tie:       m.Tie,
		Moves:     append([]int{}, m.Board.Moves...),
		Board:     m.Board.Cells,
		StartedAt: m.StartedAt,
	}
	if m.EndedAt != nil {
		r.EndedAt = *m.EndedAt
	}
	switch m.Winner {
	case m.PlayerOne.ID:
		r.LoserID = m.PlayerTwo.ID
	case m.PlayerTwo.ID:
		r.LoserID = m.PlayerOne.ID
	}
	return r
}
