package entity

import (
	"time"

	"github.com/google/uuid"
)

// Match is the archived result of a finished game.
type Match struct {
	ID         string    `json:"id"`
	RoomCode   string    `json:"room_code"`
	Black      Player    `json:"black"`
	White      Player    `json:"white"`
	Winner     string    `json:"winner"`
	Scores     Scores    `json:"scores"`
	Reason     string    `json:"reason"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewMatch records a finished game. Winner is empty on a tie.
func NewMatch(roomCode string, game *Game) *Match {
	match := &Match{
		ID:         uuid.NewString(),
		RoomCode:   roomCode,
		Scores:     game.Scores(),
		Reason:     game.Reason,
		StartedAt:  game.StartedAt,
		FinishedAt: game.FinishedAt,
	}

	if game.Black != nil {
		match.Black = *game.Black
	}

	if game.White != nil {
		match.White = *game.White
	}

	if winner := game.WinnerName(); winner != nil {
		match.Winner = *winner
	}

	return match
}

// WinningPlayer returns the winner, or nil on a tie.
func (that *Match) WinningPlayer() *Player {
	switch that.Winner {
	case "black":
		return &that.Black
	case "white":
		return &that.White
	default:
		return nil
	}
}
