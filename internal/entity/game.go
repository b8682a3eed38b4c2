package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	ReasonCompleted = "completed"
	ReasonForfeit   = "forfeit"
	ReasonTimeout   = "timeout"
)

// Game is the authoritative state of one Othello match between two players.
// It owns its board exclusively.
type Game struct {
	Board      othello.Board
	Turn       othello.Cell
	Status     string
	Winner     othello.Cell
	Reason     string
	Black      *Player
	White      *Player
	StartedAt  time.Time
	FinishedAt time.Time
}

type Scores struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// Snapshot is the self-describing game_state sent to both players.
type Snapshot struct {
	Board    [othello.Size][othello.Size]string `json:"board"`
	Turn     string                             `json:"turn"`
	Scores   Scores                             `json:"scores"`
	GameOver bool                               `json:"game_over"`
	Winner   *string                            `json:"winner"`
}

// NewGame starts a game on the canonical board with black to move.
func NewGame(black, white *Player) *Game {
	return &Game{
		Board:     *othello.NewBoard(),
		Turn:      othello.Black,
		Status:    StatusOngoing,
		Black:     black,
		White:     white,
		StartedAt: time.Now(),
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// PlayerByColor returns the player seated at color, or nil.
func (that *Game) PlayerByColor(color othello.Cell) *Player {
	switch color {
	case othello.Black:
		return that.Black
	case othello.White:
		return that.White
	default:
		return nil
	}
}

// ColorOf returns the color assigned to playerID.
func (that *Game) ColorOf(playerID string) (othello.Cell, bool) {
	switch {
	case that.Black != nil && that.Black.ID == playerID:
		return othello.Black, true
	case that.White != nil && that.White.ID == playerID:
		return othello.White, true
	default:
		return othello.Empty, false
	}
}

// MakeMove validates and applies a move for color. On any rejection the game is left untouched.
func (that *Game) MakeMove(color othello.Cell, row, col int) (Snapshot, error) {
	if that.IsFinished() {
		return Snapshot{}, apperror.ErrGameFinished
	}

	if that.PlayerByColor(color) == nil {
		return Snapshot{}, apperror.ErrInvalidColor
	}

	if that.Turn != color {
		return Snapshot{}, apperror.ErrNotYourTurn
	}

	if !othello.InBounds(row, col) {
		return Snapshot{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	}

	if !othello.ApplyMove(&that.Board, row, col, color) {
		return Snapshot{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidMove, row, col)
	}

	that.advance(color)

	return that.Snapshot(), nil
}

// advance passes the turn after mover played, skipping a player with no legal move.
func (that *Game) advance(mover othello.Cell) {
	if othello.IsTerminal(&that.Board) {
		that.finish(othello.Winner(&that.Board), ReasonCompleted)
		return
	}

	if othello.HasValidMove(&that.Board, mover.Opponent()) {
		that.Turn = mover.Opponent()
		return
	}

	that.Turn = mover
}

// Forfeit ends the game in favour of the opponent of loser.
func (that *Game) Forfeit(loser othello.Cell, reason string) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.PlayerByColor(loser) == nil {
		return apperror.ErrInvalidColor
	}

	that.finish(loser.Opponent(), reason)

	return nil
}

func (that *Game) finish(winner othello.Cell, reason string) {
	that.Status = StatusFinished
	that.Winner = winner
	that.Reason = reason
	that.FinishedAt = time.Now()
}

func (that *Game) Scores() Scores {
	black, white := that.Board.Scores()
	return Scores{Black: black, White: white}
}

// WinnerName is "black", "white" or nil for a tie or an unfinished game.
func (that *Game) WinnerName() *string {
	if !that.IsFinished() || !that.Winner.IsColor() {
		return nil
	}

	name := that.Winner.String()

	return &name
}

func (that *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:    that.Board.Strings(),
		Turn:     that.Turn.String(),
		Scores:   that.Scores(),
		GameOver: that.IsFinished(),
		Winner:   that.WinnerName(),
	}
}
