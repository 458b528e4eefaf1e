package entity

import "fmt"

// Player is one of the two marks on the board.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

// Other returns the opposing mark.
func (that Player) Other() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) Valid() bool {
	return that == PlayerX || that == PlayerO
}

// ParsePlayer converts a raw symbol into a Player.
func ParsePlayer(raw string) (Player, error) {
	player := Player(raw)
	if !player.Valid() {
		return "", fmt.Errorf("unknown player mark %q", raw)
	}

	return player, nil
}
