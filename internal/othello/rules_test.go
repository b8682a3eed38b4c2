package othello

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	// Given: a freshly created board
	board := NewBoard()

	// Then: it holds the canonical four center pieces
	assert.Equal(t, White, board.At(3, 3))
	assert.Equal(t, Black, board.At(3, 4))
	assert.Equal(t, Black, board.At(4, 3))
	assert.Equal(t, White, board.At(4, 4))

	black, white := board.Scores()
	assert.Equal(t, 2, black)
	assert.Equal(t, 2, white)
	assert.Equal(t, 60, board.Count(Empty))
}

func TestIsValidMove(t *testing.T) {
	t.Run("Accepts the four black openings", func(t *testing.T) {
		board := NewBoard()

		for _, pos := range []Position{{2, 3}, {3, 2}, {4, 5}, {5, 4}} {
			assert.True(t, IsValidMove(board, pos.Row, pos.Col, Black), "opening %v", pos)
		}
	})

	t.Run("Rejects out of range coordinates", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, IsValidMove(board, -1, 3, Black))
		assert.False(t, IsValidMove(board, 2, 8, Black))
		assert.False(t, IsValidMove(board, 8, 8, Black))
	})

	t.Run("Rejects occupied cells", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, IsValidMove(board, 3, 3, Black))
		assert.False(t, IsValidMove(board, 3, 4, White))
	})

	t.Run("Rejects cells that flip nothing", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, IsValidMove(board, 0, 0, Black))
		assert.False(t, IsValidMove(board, 2, 2, Black))
	})

	t.Run("Rejects a non-color", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, IsValidMove(board, 2, 3, Empty))
	})

	t.Run("Never mutates the board and is repeatable", func(t *testing.T) {
		board := NewBoard()
		before := *board

		first := IsValidMove(board, 2, 3, Black)
		second := IsValidMove(board, 2, 3, Black)

		assert.Equal(t, first, second)
		assert.Equal(t, before, *board)
	})
}

func TestFlippedPieces(t *testing.T) {
	t.Run("Each direction is evaluated independently", func(t *testing.T) {
		// Given: a closed run to the right and an open run downwards
		board := &Board{}
		board[0][1] = White
		board[0][2] = Black
		board[1][0] = White

		// When: computing flips for black at the corner
		flipped := FlippedPieces(board, 0, 0, Black)

		// Then: only the closed run flips
		assert.Equal(t, []Position{{Row: 0, Col: 1}}, flipped)
	})

	t.Run("Collects long runs in several directions", func(t *testing.T) {
		board := &Board{}
		board[3][1], board[3][2] = White, White
		board[3][0] = Black
		board[4][3], board[5][3] = White, White
		board[6][3] = Black

		flipped := FlippedPieces(board, 3, 3, Black)

		assert.ElementsMatch(t, []Position{{3, 2}, {3, 1}, {4, 3}, {5, 3}}, flipped)
	})

	t.Run("A run ending at the edge flips nothing", func(t *testing.T) {
		board := &Board{}
		board[0][6], board[0][7] = White, White

		assert.Empty(t, FlippedPieces(board, 0, 5, Black))
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("Black opening flips exactly one piece", func(t *testing.T) {
		for _, pos := range []Position{{2, 3}, {3, 2}, {4, 5}, {5, 4}} {
			board := NewBoard()

			flipped, ok := Apply(board, pos.Row, pos.Col, Black)
			require.True(t, ok)
			assert.Len(t, flipped, 1, "opening %v", pos)

			black, white := board.Scores()
			assert.Equal(t, 4, black)
			assert.Equal(t, 1, white)
		}
	})

	t.Run("Black at (2,3) flips (3,3)", func(t *testing.T) {
		board := NewBoard()

		require.True(t, ApplyMove(board, 2, 3, Black))

		assert.Equal(t, Black, board.At(2, 3))
		assert.Equal(t, Black, board.At(3, 3))
		assert.Equal(t, White, board.At(4, 4))
	})

	t.Run("Invalid move leaves the board untouched", func(t *testing.T) {
		board := NewBoard()
		before := *board

		assert.False(t, ApplyMove(board, 0, 0, Black))
		assert.False(t, ApplyMove(board, 9, 0, Black))
		assert.Equal(t, before, *board)
	})

	t.Run("Only the target and flipped cells change during a full game", func(t *testing.T) {
		board := NewBoard()
		color := Black

		for !IsTerminal(board) {
			moves := ValidMoves(board, color)
			if len(moves) == 0 {
				color = color.Opponent()
				continue
			}

			move := moves[len(moves)/2]
			before := *board
			black, white := before.Scores()

			flipped := FlippedPieces(board, move.Row, move.Col, color)
			require.True(t, ApplyMove(board, move.Row, move.Col, color))

			changed := map[Position]bool{move: true}
			for _, pos := range flipped {
				changed[pos] = true
				assert.Equal(t, color, board.At(pos.Row, pos.Col))
			}
			assert.Equal(t, color, board.At(move.Row, move.Col))

			for row := 0; row < Size; row++ {
				for col := 0; col < Size; col++ {
					if !changed[Position{row, col}] {
						assert.Equal(t, before[row][col], board[row][col])
					}
				}
			}

			newBlack, newWhite := board.Scores()
			assert.Equal(t, black+white+1, newBlack+newWhite)
			assert.Equal(t, before.Count(color)+1+len(flipped), board.Count(color))
			assert.LessOrEqual(t, newBlack+newWhite, Size*Size)

			color = color.Opponent()
		}
	})
}

func TestValidMoves(t *testing.T) {
	board := NewBoard()

	assert.Equal(t, []Position{{2, 3}, {3, 2}, {4, 5}, {5, 4}}, ValidMoves(board, Black))
	assert.Equal(t, []Position{{2, 4}, {3, 5}, {4, 2}, {5, 3}}, ValidMoves(board, White))
}

func TestIsTerminalAndWinner(t *testing.T) {
	t.Run("Initial board is not terminal", func(t *testing.T) {
		assert.False(t, IsTerminal(NewBoard()))
	})

	t.Run("Fully black board is won by black", func(t *testing.T) {
		board := &Board{}
		for row := range board {
			for col := range board[row] {
				board[row][col] = Black
			}
		}

		assert.True(t, IsTerminal(board))
		assert.Equal(t, Black, Winner(board))
	})

	t.Run("Even split with no moves is a tie", func(t *testing.T) {
		board := &Board{}
		for row := range board {
			for col := range board[row] {
				if row < Size/2 {
					board[row][col] = Black
				} else {
					board[row][col] = White
				}
			}
		}

		assert.True(t, IsTerminal(board))
		assert.Equal(t, Empty, Winner(board))
	})

	t.Run("Board with empties but no moves for either side is terminal", func(t *testing.T) {
		board := &Board{}
		board[0][0] = White
		board[7][7] = White
		board[4][4] = Black

		assert.True(t, IsTerminal(board))
		assert.Equal(t, White, Winner(board))
	})
}

func TestColor(t *testing.T) {
	assert.Equal(t, "black", Black.String())
	assert.Equal(t, "white", White.String())
	assert.Equal(t, "", Empty.String())
	assert.Equal(t, White, Black.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())

	color, err := ParseColor("white")
	require.NoError(t, err)
	assert.Equal(t, White, color)

	_, err = ParseColor("red")
	assert.ErrorIs(t, err, ErrUnknownColor)
}
