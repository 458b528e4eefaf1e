package apperror

import "errors"

var (
	ErrOutOfRange    = errors.New("position must be an integer between 0 and 8")
	ErrNoPosition    = errors.New("position is required")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrGameOver      = errors.New("game is already finished")
	ErrNotFound      = errors.New("game not found")
	ErrNoLegalMove   = errors.New("no legal move available")
	ErrInvalidWinner = errors.New("winner must be X, O or null")

	ErrOpponentDisabled = errors.New("computer opponent is disabled")
)

// IsInvalidMove reports whether err is a rule violation that should be shown to the player
// rather than treated as an internal failure.
func IsInvalidMove(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrNoLegalMove)
}

// Reason returns a message for err that is safe to show to a player.
func Reason(err error) string {
	for _, known := range []error{ErrOutOfRange, ErrCellOccupied, ErrGameOver, ErrNoLegalMove, ErrNotFound, ErrInvalidWinner, ErrOpponentDisabled, ErrNoPosition} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}
