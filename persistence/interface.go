// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/bugbash/gameserver/models"
)

// Database stores finished-game records and player tallies.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	RecordPlayerResult(name string, won bool) error
	GetPlayerStats(name string) (*models.PlayerStats, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
