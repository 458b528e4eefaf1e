package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

const (
	actionGameNew      = "game:new"
	actionGameGet      = "game:get"
	actionGameList     = "game:list"
	actionGameMove     = "game:move"
	actionGameOpponent = "game:opponent"
	actionGameUpdate   = "game:update"
	actionStatsGet     = "stats:get"
	actionError        = "error"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errGameIDRequired = errors.New("game id is required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type gamePayload struct {
	ID       string          `json:"id"`
	Position json.RawMessage `json:"position,omitempty"`
}

func newMessage(action string, payload any) Message {
	msg := Message{Action: action}

	data, err := json.Marshal(payload)
	if err != nil {
		msg.Error = "internal error"
		return msg
	}

	msg.Payload = data

	return msg
}

func isClientError(err error) bool {
	return errors.Is(err, errInvalidPayload) ||
		errors.Is(err, errGameIDRequired) ||
		errors.Is(err, apperror.ErrNoPosition) ||
		errors.Is(err, apperror.ErrNotFound) ||
		errors.Is(err, apperror.ErrOpponentDisabled) ||
		apperror.IsInvalidMove(err)
}

func errorReason(err error) string {
	for _, known := range []error{errInvalidPayload, errGameIDRequired} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return apperror.Reason(err)
}
