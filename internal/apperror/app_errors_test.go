package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	t.Run("Wrapped rule errors keep their message", func(t *testing.T) {
		err := fmt.Errorf("failed to make turn: %w", fmt.Errorf("invalid move: %w", ErrCellOccupied))

		assert.Equal(t, "cell is already occupied", Reason(err))
		assert.True(t, IsInvalidMove(err))
	})

	t.Run("Unknown errors are hidden", func(t *testing.T) {
		err := errors.New("dial tcp 127.0.0.1:6379: connection refused")

		assert.Equal(t, "internal error", Reason(err))
		assert.False(t, IsInvalidMove(err))
	})

	t.Run("Not found is not an invalid move", func(t *testing.T) {
		assert.False(t, IsInvalidMove(ErrNotFound))
		assert.Equal(t, "game not found", Reason(ErrNotFound))
	})

	t.Run("Missing position has its own reason", func(t *testing.T) {
		assert.False(t, IsInvalidMove(ErrNoPosition))
		assert.Equal(t, "position is required", Reason(fmt.Errorf("bad request: %w", ErrNoPosition)))
	})
}
