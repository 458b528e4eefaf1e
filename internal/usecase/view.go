package usecase

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// GameView is a game together with its current outcome.
type GameView struct {
	entity.GameState
	Outcome entity.Outcome
}

func (that GameView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		entity.GameState
		Status entity.OutcomeStatus `json:"status"`
		Winner *entity.Player       `json:"winner"`
	}{
		GameState: that.GameState,
		Status:    that.Outcome.Status,
		Winner:    that.Outcome.WinnerRef(),
	})
}
