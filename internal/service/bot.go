package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

const centerCell = 4

var (
	cornerCells = [...]int{0, 2, 6, 8}
	edgeCells   = [...]int{1, 3, 5, 7}
)

// BotService picks the computer player's move. It always plays the side whose turn it is.
type BotService interface {
	SelectMove(game entity.GameState) (int, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// SelectMove - win if possible, otherwise block, otherwise center, corner, edge.
// Ties always go to the lowest index so the choice is reproducible.
func (that *botService) SelectMove(game entity.GameState) (int, error) {
	if tictactoe.MoveCount(game) == entity.BoardSize {
		return 0, apperror.ErrNoLegalMove
	}

	if tictactoe.GetOutcome(game).IsFinished() {
		return 0, fmt.Errorf("bot cannot move: %w", apperror.ErrGameOver)
	}

	self := game.CurrentPlayer

	if cell, ok := completingCell(game.Board, self); ok {
		return cell, nil
	}

	if cell, ok := completingCell(game.Board, self.Other()); ok {
		return cell, nil
	}

	if game.Board[centerCell].IsEmpty() {
		return centerCell, nil
	}

	for _, cell := range cornerCells {
		if game.Board[cell].IsEmpty() {
			return cell, nil
		}
	}

	for _, cell := range edgeCells {
		if game.Board[cell].IsEmpty() {
			return cell, nil
		}
	}

	return 0, apperror.ErrNoLegalMove
}

// completingCell returns the lowest empty cell that would give player three in a row.
func completingCell(board entity.Board, player entity.Player) (int, bool) {
	for cell := range board {
		if !board[cell].IsEmpty() {
			continue
		}

		candidate := board
		candidate[cell] = entity.Cell(player)

		for _, combo := range tictactoe.WinCombos {
			if candidate[combo[0]] == candidate[combo[1]] &&
				candidate[combo[1]] == candidate[combo[2]] &&
				candidate[combo[0]].Owner() == player {
				return cell, true
			}
		}
	}

	return 0, false
}
