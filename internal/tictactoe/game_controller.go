package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// WinCombos lists the three rows, three columns and two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ApplyMove places the current player's mark at position and hands the turn over.
// The input state is never modified; on error the zero GameState is returned.
func ApplyMove(state entity.GameState, position int) (entity.GameState, error) {
	if err := validateMove(state, position); err != nil {
		return entity.GameState{}, fmt.Errorf("invalid move: %w", err)
	}

	next := state
	next.Board[position] = entity.Cell(state.CurrentPlayer)
	next.CurrentPlayer = state.CurrentPlayer.Other()

	return next, nil
}

// validateMove - checks range, game over and occupancy, in that order.
func validateMove(state entity.GameState, position int) error {
	if position < 0 || position >= entity.BoardSize {
		return fmt.Errorf("%w: got %d", apperror.ErrOutOfRange, position)
	}

	if GetOutcome(state).IsFinished() {
		return apperror.ErrGameOver
	}

	if !state.Board[position].IsEmpty() {
		return fmt.Errorf("%w: position %d", apperror.ErrCellOccupied, position)
	}

	return nil
}

// GetOutcome classifies the board. It depends only on the board contents.
func GetOutcome(state entity.GameState) entity.Outcome {
	board := state.Board

	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			return entity.Won(a.Owner())
		}
	}

	if MoveCount(state) == entity.BoardSize {
		return entity.Draw()
	}

	return entity.InProgress()
}

// MoveCount returns the number of occupied cells.
func MoveCount(state entity.GameState) int {
	count := 0
	for _, cell := range state.Board {
		if !cell.IsEmpty() {
			count++
		}
	}

	return count
}
