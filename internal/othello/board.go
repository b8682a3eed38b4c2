package othello

import "errors"

// Size is the width and height of the board.
const Size = 8

// Cell is the content of a single square. Black and White double as player colors.
type Cell int8

const (
	Empty Cell = iota
	Black
	White
)

var ErrUnknownColor = errors.New("unknown color")

// Position is a zero-based (row, col) coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is an 8x8 grid. The zero value is an empty board; use NewBoard for the starting position.
type Board [Size][Size]Cell

// NewBoard returns the canonical starting position.
func NewBoard() *Board {
	board := &Board{}

	board[3][3], board[4][4] = White, White
	board[3][4], board[4][3] = Black, Black

	return board
}

func (that Cell) String() string {
	switch that {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return ""
	}
}

// Opponent returns the other color. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsColor reports whether the cell value names a player.
func (that Cell) IsColor() bool {
	return that == Black || that == White
}

// ParseColor converts "black" / "white" back into a Cell.
func ParseColor(color string) (Cell, error) {
	switch color {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	default:
		return Empty, ErrUnknownColor
	}
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the cell at (row, col), or Empty when off the board.
func (that *Board) At(row, col int) Cell {
	if !InBounds(row, col) {
		return Empty
	}

	return that[row][col]
}

// Count returns the number of cells holding the given value.
func (that *Board) Count(cell Cell) int {
	count := 0
	for row := range that {
		for col := range that[row] {
			if that[row][col] == cell {
				count++
			}
		}
	}

	return count
}

// Scores returns the number of black and white pieces.
func (that *Board) Scores() (int, int) {
	return that.Count(Black), that.Count(White)
}

// IsFull reports whether no empty cell remains.
func (that *Board) IsFull() bool {
	return that.Count(Empty) == 0
}

// Strings renders the board as "black" / "white" / "" cells for the wire.
func (that *Board) Strings() [Size][Size]string {
	var out [Size][Size]string
	for row := range that {
		for col := range that[row] {
			out[row][col] = that[row][col].String()
		}
	}

	return out
}
