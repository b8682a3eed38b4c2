package othello

// directions are the 8 compass steps scanned from a destination cell.
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// IsValidMove reports whether color may place a piece at (row, col). It never mutates the board.
func IsValidMove(board *Board, row, col int, color Cell) bool {
	return len(FlippedPieces(board, row, col, color)) > 0
}

// FlippedPieces returns every opponent piece that a move at (row, col) would flip.
// Each direction is evaluated on its own: a run that is not closed by a piece of
// color contributes nothing.
func FlippedPieces(board *Board, row, col int, color Cell) []Position {
	if !color.IsColor() || !InBounds(row, col) || board[row][col] != Empty {
		return nil
	}

	var flipped []Position
	for _, dir := range directions {
		flipped = append(flipped, flipsInDirection(board, row, col, dir[0], dir[1], color)...)
	}

	return flipped
}

func flipsInDirection(board *Board, row, col, dRow, dCol int, color Cell) []Position {
	opponent := color.Opponent()

	var run []Position
	r, c := row+dRow, col+dCol
	for InBounds(r, c) && board[r][c] == opponent {
		run = append(run, Position{Row: r, Col: c})
		r += dRow
		c += dCol
	}

	if len(run) == 0 || !InBounds(r, c) || board[r][c] != color {
		return nil
	}

	return run
}

// ApplyMove places a piece for color at (row, col) and flips the captured pieces.
// An invalid move returns false and leaves the board untouched.
func ApplyMove(board *Board, row, col int, color Cell) bool {
	_, ok := Apply(board, row, col, color)
	return ok
}

// Apply is ApplyMove that also returns the flipped positions.
func Apply(board *Board, row, col int, color Cell) ([]Position, bool) {
	flipped := FlippedPieces(board, row, col, color)
	if len(flipped) == 0 {
		return nil, false
	}

	board[row][col] = color
	for _, pos := range flipped {
		board[pos.Row][pos.Col] = color
	}

	return flipped, true
}

// ValidMoves lists every legal destination for color in row-major order.
func ValidMoves(board *Board, color Cell) []Position {
	var moves []Position
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if IsValidMove(board, row, col, color) {
				moves = append(moves, Position{Row: row, Col: col})
			}
		}
	}

	return moves
}

// HasValidMove reports whether color has at least one legal move.
func HasValidMove(board *Board, color Cell) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if IsValidMove(board, row, col, color) {
				return true
			}
		}
	}

	return false
}

// IsTerminal holds when the board is full or neither color can move.
func IsTerminal(board *Board) bool {
	if board.IsFull() {
		return true
	}

	return !HasValidMove(board, Black) && !HasValidMove(board, White)
}

// Winner compares piece counts. Empty means a tie.
func Winner(board *Board) Cell {
	black, white := board.Scores()

	switch {
	case black > white:
		return Black
	case white > black:
		return White
	default:
		return Empty
	}
}
