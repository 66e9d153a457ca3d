package model

type Player struct {
	ID    string
	Owner Owner
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Owner Owner  `json:"owner"`
}

// Seated reports whether a player occupies the seat.
func (p ClientPlayer) Seated() bool {
	return p.ID != ""
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// MatchFoundEvent is sent to each matched player on their matchmaking channel.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Owner  Owner  `json:"owner"`
}
