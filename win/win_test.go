package win

import (
	"strings"
	"testing"

	"github.com/bugbash/gameserver/bugs"
	"github.com/bugbash/gameserver/room"
)

// playingRoom seats ids with the first as bugger and the rest as debuggers.
func playingRoom(ids ...string) *room.Room {
	r := room.NewRoom("TEST")
	r.State = room.StatePlaying
	r.CurrentRound = 1
	r.TotalRounds = 3
	for i, id := range ids {
		p := &room.Player{ID: id, Name: id, Role: room.RoleDebugger}
		if i == 0 {
			p.Role = room.RoleBugger
			r.BuggerID = id
		} else {
			r.Debuggers = append(r.Debuggers, id)
		}
		r.Players[id] = p
		r.JoinOrder = append(r.JoinOrder, id)
	}
	return r
}

func TestAfterElimination_BuggerKicked(t *testing.T) {
	r := playingRoom("bug", "d1", "d2")
	r.Players["bug"].Disabled = true

	res := AfterElimination(r, "bug")
	if !res.Over || res.Winner != WinnerDebuggers {
		t.Fatalf("Kicking the bugger must end the game for the debuggers, got %+v", res)
	}
}

func TestAfterElimination_DebuggerKicked_GameContinues(t *testing.T) {
	r := playingRoom("bug", "d1", "d2", "d3")
	r.Players["d1"].Disabled = true

	res := AfterElimination(r, "d1")
	if res.Over {
		t.Fatalf("Three enabled players remain, game must continue, got %+v", res)
	}
}

func TestAfterElimination_DownToTwo_BuggerWins(t *testing.T) {
	r := playingRoom("bug", "d1", "d2")
	r.Players["d1"].Disabled = true

	res := AfterElimination(r, "d1")
	if !res.Over || res.Winner != WinnerBugger {
		t.Fatalf("Bugger plus one debugger means the bugger wins, got %+v", res)
	}
}

func TestBuggerWins_AllDebuggersDisabled(t *testing.T) {
	r := playingRoom("bug", "d1", "d2", "d3")
	for _, id := range []string{"d1", "d2", "d3"} {
		r.Players[id].Disabled = true
	}
	if !BuggerWins(r) {
		t.Error("No enabled debuggers left, bugger should win")
	}
}

func TestBuggerWins_DisabledBuggerNeverWins(t *testing.T) {
	r := playingRoom("bug", "d1", "d2")
	r.Players["bug"].Disabled = true
	r.Players["d1"].Disabled = true
	if BuggerWins(r) {
		t.Error("A disabled bugger cannot win by attrition")
	}
}

func TestBuggerWins_TwoLeftWithoutBugger(t *testing.T) {
	r := playingRoom("bug", "d1", "d2", "d3")
	r.Players["bug"].Disabled = true
	r.Players["d1"].Disabled = true
	if BuggerWins(r) {
		t.Error("Two enabled debuggers is not a bugger win")
	}
}

func TestAtRoundEnd_NonFinalRoundContinues(t *testing.T) {
	r := playingRoom("bug", "d1", "d2")
	r.CurrentRound = 1
	r.TotalRounds = 3

	res := AtRoundEnd(r, "whatever")
	if res.Over {
		t.Fatalf("Round 1 of 3 must not end the game, got %+v", res)
	}
}

func TestAtRoundEnd_AttritionBeatsRoundCount(t *testing.T) {
	r := playingRoom("bug", "d1", "d2")
	r.Players["d1"].Disabled = true
	r.Players["d2"].Disabled = true
	r.CurrentRound = 1

	res := AtRoundEnd(r, "whatever")
	if !res.Over || res.Winner != WinnerBugger {
		t.Fatalf("Attrition is checked before the round count, got %+v", res)
	}
}

func finalRound(t *testing.T) (*room.Room, bugs.Sample) {
	t.Helper()
	r := playingRoom("bug", "d1", "d2")
	r.CurrentRound = 3
	r.TotalRounds = 3

	sample := bugs.Catalog()[0]
	assigned := sample.Bugs[:2]
	r.Current = &room.RoundCode{
		SampleID:         sample.ID,
		Language:         sample.Language,
		CorrectCode:      sample.CorrectCode,
		InitialBuggyCode: bugs.Inject(sample.CorrectCode, assigned),
		AssignedOrder:    assigned,
	}
	return r, sample
}

func TestAtRoundEnd_FinalRound_AllFixed(t *testing.T) {
	r, sample := finalRound(t)

	res := AtRoundEnd(r, sample.CorrectCode)
	if !res.Over || res.Winner != WinnerDebuggers {
		t.Fatalf("Fully restored code is a debugger win, got %+v", res)
	}
}

func TestAtRoundEnd_FinalRound_ResidualBugs(t *testing.T) {
	r, _ := finalRound(t)

	// The untouched buggy code still carries both injected bugs.
	res := AtRoundEnd(r, r.Current.InitialBuggyCode)
	if !res.Over || res.Winner != WinnerBugger {
		t.Fatalf("Residual bugs are a bugger win, got %+v", res)
	}
	if !strings.Contains(res.Reason, "unfixed bugs remain") {
		t.Errorf("Reason should name the residual bugs, got %q", res.Reason)
	}
	if !strings.Contains(res.Reason, "average crashes on an empty list") {
		t.Errorf("Reason should list the missing-guard description, got %q", res.Reason)
	}
}

func TestAtRoundEnd_FinalRound_BrokenSyntax(t *testing.T) {
	r, sample := finalRound(t)

	res := AtRoundEnd(r, sample.CorrectCode+"\n}")
	if !res.Over || res.Winner != WinnerBugger {
		t.Fatalf("Unparseable code is a bugger win, got %+v", res)
	}
	if res.Reason != "final code does not parse" {
		t.Errorf("Unexpected reason %q", res.Reason)
	}
}

func TestAtRoundEnd_FinalRound_PartialFix(t *testing.T) {
	r, _ := finalRound(t)

	// Restore one of the two guards by hand.
	partial := strings.Replace(r.Current.InitialBuggyCode,
		"function average(values) {\n",
		"function average(values) {\n  if (values.length === 0) {\n    return 0;\n  }\n", 1)

	res := AtRoundEnd(r, partial)
	if !res.Over || res.Winner != WinnerBugger {
		t.Fatalf("One unfixed bug is still a bugger win, got %+v", res)
	}
	if strings.Contains(res.Reason, "average crashes") {
		t.Errorf("Fixed bug should not appear in the reason, got %q", res.Reason)
	}
}
