// win/win.go
//
// End-of-game evaluation. Invoked after a decisive vote and at every round
// end; leaving the room is deliberately not a trigger.
package win

import (
	"fmt"
	"strings"

	"github.com/bugbash/gameserver/bugs"
	"github.com/bugbash/gameserver/room"
)

const (
	WinnerBugger    = "bugger"
	WinnerDebuggers = "debuggers"
)

// Result reports whether the game is over and who won.
type Result struct {
	Over   bool
	Winner string
	Reason string
}

// AfterElimination evaluates the game after a decisive vote eliminated
// kickedID.
func AfterElimination(r *room.Room, kickedID string) Result {
	if kickedID == r.BuggerID {
		return Result{Over: true, Winner: WinnerDebuggers, Reason: "bugger was voted out"}
	}
	if BuggerWins(r) {
		return Result{Over: true, Winner: WinnerBugger, Reason: "too few debuggers remain"}
	}
	return Result{}
}

// BuggerWins is true when every debugger is disabled or gone while the bugger
// is still enabled, or when exactly two enabled players remain and the bugger
// is one of them.
func BuggerWins(r *room.Room) bool {
	bugger, ok := r.Player(r.BuggerID)
	if !ok || bugger.Disabled {
		return false
	}

	enabled := r.EnabledPlayers()

	debuggersLeft := 0
	for _, id := range r.Debuggers {
		if p, ok := r.Player(id); ok && !p.Disabled {
			debuggersLeft++
		}
	}
	if debuggersLeft == 0 {
		return true
	}

	if len(enabled) == 2 {
		for _, id := range enabled {
			if id == r.BuggerID {
				return true
			}
		}
	}
	return false
}

// AtRoundEnd evaluates a round boundary. Non-final rounds continue the game;
// on the final round the submitted code is judged by residual bug signatures
// and a syntax check.
func AtRoundEnd(r *room.Room, submitted string) Result {
	if BuggerWins(r) {
		return Result{Over: true, Winner: WinnerBugger, Reason: "too few debuggers remain"}
	}

	if r.CurrentRound < r.TotalRounds {
		return Result{}
	}

	if r.Current == nil {
		return Result{Over: true, Winner: WinnerDebuggers, Reason: "all bugs fixed"}
	}

	if !bugs.SyntaxOK(submitted) {
		return Result{Over: true, Winner: WinnerBugger, Reason: "final code does not parse"}
	}

	residual := bugs.DetectResidual(submitted, r.Current.AssignedOrder)
	if len(residual) > 0 {
		var names []string
		for _, b := range residual {
			names = append(names, b.Description)
		}
		return Result{
			Over:   true,
			Winner: WinnerBugger,
			Reason: fmt.Sprintf("unfixed bugs remain: %s", strings.Join(names, "; ")),
		}
	}

	return Result{Over: true, Winner: WinnerDebuggers, Reason: "all bugs fixed"}
}
