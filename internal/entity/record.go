package entity

import "time"

// GameRecord is an entry in the finished-game log. A nil Winner means a draw.
type GameRecord struct {
	ID        string    `json:"id"`
	Winner    *Player   `json:"winner"`
	Moves     int       `json:"moves"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"winRate"`
}
