package tictactoe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

// ParsePosition reads a board position sent by a client. A JSON number or a numeric
// string is accepted; anything that is not an integer is out of range.
func ParsePosition(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, apperror.ErrNoPosition
	}

	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.Trunc(value) != value || math.Abs(value) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: got %s", apperror.ErrOutOfRange, string(raw))
	}

	return int(value), nil
}
