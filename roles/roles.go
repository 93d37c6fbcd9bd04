// roles/roles.go
package roles

import (
	"math/rand"

	"github.com/bugbash/gameserver/room"
)

// Assign shuffles the room's full player list and designates one bugger, the
// rest debuggers. Roles rotate because this runs at the start of every round.
// Disabled players stay in the shuffle pool; a disabled bugger is still a
// valid draw under the current rules.
func Assign(r *room.Room, rng *rand.Rand) {
	ids := make([]string, len(r.JoinOrder))
	copy(ids, r.JoinOrder)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	r.BuggerID = ""
	r.Debuggers = nil
	for i, id := range ids {
		p, ok := r.Players[id]
		if !ok {
			continue
		}
		if i == 0 {
			p.Role = room.RoleBugger
			r.BuggerID = id
		} else {
			p.Role = room.RoleDebugger
			r.Debuggers = append(r.Debuggers, id)
		}
	}
}
