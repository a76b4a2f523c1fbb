package domain

// Friend is a friend of the caller with its live presence.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
	Online    bool   `json:"online"`
	Game      string `json:"game"`
	Victories int    `json:"victories"`
	Defeats   int    `json:"defeats"`
}
