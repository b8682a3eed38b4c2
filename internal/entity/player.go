package entity

// Player is a connected identity as seen by rooms and games.
type Player struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
}
