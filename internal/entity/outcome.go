package entity

type OutcomeStatus string

const (
	StatusInProgress OutcomeStatus = "in_progress"
	StatusWon        OutcomeStatus = "won"
	StatusDraw       OutcomeStatus = "draw"
)

// Outcome classifies a board. Winner is set only when Status is StatusWon.
type Outcome struct {
	Status OutcomeStatus
	Winner Player
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func Won(player Player) Outcome {
	return Outcome{Status: StatusWon, Winner: player}
}

func Draw() Outcome {
	return Outcome{Status: StatusDraw}
}

func (that Outcome) IsFinished() bool {
	return that.Status != StatusInProgress
}

// WinnerRef returns the winner as a nullable reference, nil for a draw or unfinished game.
func (that Outcome) WinnerRef() *Player {
	if that.Status != StatusWon {
		return nil
	}

	winner := that.Winner

	return &winner
}
