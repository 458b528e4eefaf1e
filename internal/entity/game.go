package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const BoardSize = 9

// Cell holds a Player mark or EmptyCell.
type Cell Player

const EmptyCell Cell = ""

// Board is indexed 0-8 in row-major order.
type Board [BoardSize]Cell

// GameState is a snapshot of a single game. It is passed by value; a move
// produces a new GameState instead of changing an existing one.
type GameState struct {
	ID            string `json:"id"`
	Board         Board  `json:"board"`
	CurrentPlayer Player `json:"currentPlayer"`
}

// NewGame returns an empty board with X to move.
func NewGame(id string) GameState {
	return GameState{
		ID:            id,
		CurrentPlayer: PlayerX,
	}
}

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Owner returns the Player occupying the cell.
func (that Cell) Owner() Player {
	return Player(that)
}

func (that Cell) MarshalJSON() ([]byte, error) {
	if that.IsEmpty() {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*that = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	if raw == "" {
		*that = EmptyCell
		return nil
	}

	player, err := ParsePlayer(raw)
	if err != nil {
		return err
	}

	*that = Cell(player)

	return nil
}
