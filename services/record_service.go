// services/record_service.go
package services

import (
	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/models"
	"github.com/bugbash/gameserver/persistence"
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/win"
)

// RecordService writes finished-game records and player tallies. Failures
// are logged, never surfaced to the room.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// RecordGame builds and saves the audit record for a finished room. Safe to
// call from a goroutine; it only reads the snapshot it is given.
func (s *RecordService) RecordGame(record *models.GameRecord) {
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to save game record for room %s: %v", record.RoomCode, err)
		return
	}

	for _, p := range record.Players {
		if err := s.db.RecordPlayerResult(p.Name, p.Won); err != nil {
			logger.Log.Errorf("Failed to record result for player %s: %v", p.Name, err)
		}
	}
}

// Snapshot converts a finished room into a game record.
func Snapshot(r *room.Room) *models.GameRecord {
	record := &models.GameRecord{
		RoomCode: r.Code,
		Rounds:   r.CurrentRound,
		Winner:   r.Winner,
		Reason:   r.WinReason,
	}

	for _, p := range r.PlayersInOrder() {
		won := false
		switch r.Winner {
		case win.WinnerBugger:
			won = p.Role == room.RoleBugger
		case win.WinnerDebuggers:
			won = p.Role == room.RoleDebugger
		}
		record.Players = append(record.Players, models.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Role:     string(p.Role),
			Disabled: p.Disabled,
			Won:      won,
		})
	}
	return record
}

// PlayerStats exposes the stored tally for the stats RPC.
func (s *RecordService) PlayerStats(name string) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(name)
}
