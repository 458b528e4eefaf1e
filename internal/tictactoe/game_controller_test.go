package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	x = entity.Cell(entity.PlayerX)
	o = entity.Cell(entity.PlayerO)
	e = entity.EmptyCell
)

func stateOf(board entity.Board, turn entity.Player) entity.GameState {
	return entity.GameState{ID: "123", Board: board, CurrentPlayer: turn}
}

func TestApplyMove(t *testing.T) {
	t.Run("Every position on an empty board is playable", func(t *testing.T) {
		for position := 0; position < entity.BoardSize; position++ {
			// Given: a new game
			game := entity.NewGame("123")

			// When: X plays the position
			next, err := ApplyMove(game, position)

			// Then: the mark lands there and it is O's turn
			require.NoError(t, err)
			assert.Equal(t, x, next.Board[position])
			assert.Equal(t, entity.PlayerO, next.CurrentPlayer)
			assert.Equal(t, "123", next.ID)
		}
	})

	t.Run("Positions outside the board are rejected", func(t *testing.T) {
		for _, position := range []int{-1, 9, 20, -100} {
			_, err := ApplyMove(entity.NewGame("123"), position)
			assert.ErrorIs(t, err, apperror.ErrOutOfRange, "position %d", position)
		}
	})

	t.Run("Input state is left untouched", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame("123")

		// When: a move is applied
		_, err := ApplyMove(game, 4)
		require.NoError(t, err)

		// Then: the original value is still empty with X to move
		assert.Equal(t, entity.NewGame("123"), game)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X has played cell 0
		game, err := ApplyMove(entity.NewGame("123"), 0)
		require.NoError(t, err)

		// When: O tries the same cell
		_, err = ApplyMove(game, 0)

		// Then: CellOccupied is returned
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Turns alternate on every successful move", func(t *testing.T) {
		game := entity.NewGame("123")
		for _, position := range []int{4, 0, 8, 2, 6} {
			before := game.CurrentPlayer

			next, err := ApplyMove(game, position)
			require.NoError(t, err)

			assert.NotEqual(t, before, next.CurrentPlayer)
			game = next
		}
	})

	t.Run("No move is accepted once the game is won", func(t *testing.T) {
		// Given: X already owns the top row
		game := stateOf(entity.Board{
			x, x, x,
			o, o, e,
			e, e, e,
		}, entity.PlayerO)

		// Then: every empty position fails with GameOver
		for _, position := range []int{5, 6, 7, 8} {
			_, err := ApplyMove(game, position)
			assert.ErrorIs(t, err, apperror.ErrGameOver)
		}

		// And: an occupied cell also reports GameOver, not CellOccupied
		_, err := ApplyMove(game, 0)
		assert.ErrorIs(t, err, apperror.ErrGameOver)
	})

	t.Run("No move is accepted once the game is drawn", func(t *testing.T) {
		// Given: a full board without a line
		game := stateOf(entity.Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}, entity.PlayerO)

		// Then: every position reports GameOver rather than CellOccupied
		for position := 0; position < entity.BoardSize; position++ {
			_, err := ApplyMove(game, position)
			assert.ErrorIs(t, err, apperror.ErrGameOver, "position %d", position)
			assert.NotErrorIs(t, err, apperror.ErrCellOccupied, "position %d", position)
		}
	})

	t.Run("Range is checked before game over", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, x, x,
			o, o, e,
			e, e, e,
		}, entity.PlayerO)

		_, err := ApplyMove(game, 9)
		assert.ErrorIs(t, err, apperror.ErrOutOfRange)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, x, e,
			o, o, e,
			e, e, e,
		}, entity.PlayerX)

		next, err := ApplyMove(game, 2)
		require.NoError(t, err)

		assert.Equal(t, entity.Won(entity.PlayerX), GetOutcome(next))
		assert.Equal(t, entity.PlayerO, next.CurrentPlayer)
	})
}

func TestGetOutcome(t *testing.T) {
	t.Run("Top row for X", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, x, x,
			e, e, e,
			e, e, e,
		}, entity.PlayerO)

		assert.Equal(t, entity.Won(entity.PlayerX), GetOutcome(game))
	})

	t.Run("Every line is detected", func(t *testing.T) {
		for _, combo := range WinCombos {
			var board entity.Board
			for _, idx := range combo {
				board[idx] = o
			}

			assert.Equal(t, entity.Won(entity.PlayerO), GetOutcome(stateOf(board, entity.PlayerX)), "line %v", combo)
		}
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}, entity.PlayerO)

		assert.Equal(t, entity.Draw(), GetOutcome(game))
	})

	t.Run("Winning last move is a win, not a draw", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, o, x,
			o, x, o,
			o, x, x,
		}, entity.PlayerO)

		assert.Equal(t, entity.Won(entity.PlayerX), GetOutcome(game))
	})

	t.Run("Partial board is in progress", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, o, e,
			e, x, e,
			e, e, o,
		}, entity.PlayerX)

		assert.Equal(t, entity.InProgress(), GetOutcome(game))
	})

	t.Run("Repeated calls agree", func(t *testing.T) {
		game := stateOf(entity.Board{
			x, o, e,
			e, x, e,
			e, e, o,
		}, entity.PlayerX)

		assert.Equal(t, GetOutcome(game), GetOutcome(game))
	})
}

func TestMoveCount(t *testing.T) {
	game := stateOf(entity.Board{
		x, o, e,
		e, x, e,
		e, e, e,
	}, entity.PlayerO)

	assert.Equal(t, 3, MoveCount(game))
	assert.Equal(t, 0, MoveCount(entity.NewGame("1")))
}
