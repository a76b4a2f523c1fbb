package domain

// Entry is one line of the public leaderboard.
type Entry struct {
	Username  string  `json:"username"`
	Ratio     float64 `json:"ratio"`
	Victories int     `json:"victories"`
	Defeats   int     `json:"defeats"`
}
