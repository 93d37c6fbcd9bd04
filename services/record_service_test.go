package services

import (
	"os"
	"testing"

	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/persistence"
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/win"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func finishedRoom(winner string) *room.Room {
	r := room.NewRoom("ABCD")
	r.State = room.StateResults
	r.CurrentRound = 3
	r.Winner = winner
	r.WinReason = "test"
	r.BuggerID = "p1"

	seats := []struct {
		id   string
		role room.Role
	}{
		{"p1", room.RoleBugger},
		{"p2", room.RoleDebugger},
		{"p3", room.RoleDebugger},
	}
	for _, seat := range seats {
		r.Players[seat.id] = &room.Player{ID: seat.id, Name: "name-" + seat.id, Role: seat.role}
		r.JoinOrder = append(r.JoinOrder, seat.id)
	}
	return r
}

func TestSnapshot_DebuggersWin(t *testing.T) {
	record := Snapshot(finishedRoom(win.WinnerDebuggers))

	if record.RoomCode != "ABCD" || record.Rounds != 3 || record.Winner != win.WinnerDebuggers {
		t.Errorf("Record header = %+v", record)
	}
	if len(record.Players) != 3 {
		t.Fatalf("Record has %d players, want 3", len(record.Players))
	}
	for _, p := range record.Players {
		wantWon := p.Role == string(room.RoleDebugger)
		if p.Won != wantWon {
			t.Errorf("Player %s won=%v, want %v", p.Name, p.Won, wantWon)
		}
	}
}

func TestSnapshot_BuggerWins(t *testing.T) {
	record := Snapshot(finishedRoom(win.WinnerBugger))

	for _, p := range record.Players {
		wantWon := p.Role == string(room.RoleBugger)
		if p.Won != wantWon {
			t.Errorf("Player %s won=%v, want %v", p.Name, p.Won, wantWon)
		}
	}
}

func TestRecordGame_SavesRecordAndTallies(t *testing.T) {
	db := persistence.NewMemory()
	svc := NewRecordService(db)

	svc.RecordGame(Snapshot(finishedRoom(win.WinnerDebuggers)))
	svc.RecordGame(Snapshot(finishedRoom(win.WinnerBugger)))

	if got := len(db.Records()); got != 2 {
		t.Fatalf("Saved %d records, want 2", got)
	}

	stats, err := svc.PlayerStats("name-p2")
	if err != nil {
		t.Fatalf("PlayerStats failed: %v", err)
	}
	if stats.TotalGames != 2 || stats.Wins != 1 || stats.Losses != 1 {
		t.Errorf("Debugger tally = %+v, want 2 games, 1 win, 1 loss", stats)
	}

	if _, err := svc.PlayerStats("nobody"); err != persistence.ErrRecordNotFound {
		t.Errorf("Unknown player error = %v, want ErrRecordNotFound", err)
	}
}
