// models/models.go
package models

import (
	"time"
)

// GameRecord is the audit record of one finished game. Live room state is
// never persisted; this is written once at game end.
type GameRecord struct {
	RoomCode  string         `json:"room_code"`
	Rounds    int            `json:"rounds"`
	Winner    string         `json:"winner"`
	Reason    string         `json:"reason"`
	Players   []PlayerResult `json:"players"`
	CreatedAt time.Time      `json:"created_at"`
}

// PlayerResult is one player's line in a game record.
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Disabled bool   `json:"disabled"`
	Won      bool   `json:"won"`
}

// PlayerStats is the aggregate win/loss tally for a player name. There is no
// authentication, so the name is the key.
type PlayerStats struct {
	Name       string `json:"name"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}
