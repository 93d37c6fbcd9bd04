// server/game.go
//
// Round and vote flow. Everything here runs on the event loop; timer
// callbacks re-enter through post() and re-fetch the room by code, treating
// a missing room or unexpected state as a silent no-op.
package server

import (
	"time"

	"github.com/bugbash/gameserver/bugs"
	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/network"
	"github.com/bugbash/gameserver/roles"
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/services"
	"github.com/bugbash/gameserver/session"
	"github.com/bugbash/gameserver/win"
)

// beginRound assigns roles, injects bugs into a fresh sample and starts the
// countdown. Caller has already set CurrentRound.
func (s *GameServer) beginRound(r *room.Room) {
	roles.Assign(r, s.rng)

	sample := bugs.PickSample(s.rng)
	assigned, ordered := bugs.Assign(sample, r.Debuggers, s.rng)
	buggy := bugs.Inject(sample.CorrectCode, ordered)

	r.Current = &room.RoundCode{
		SampleID:         sample.ID,
		Language:         sample.Language,
		CorrectCode:      sample.CorrectCode,
		InitialBuggyCode: buggy,
		LiveCode:         buggy,
		BugAssignments:   assigned,
		AssignedOrder:    ordered,
		TestCases:        sample.TestCases,
	}
	r.BuzzedPlayer = ""
	r.ActiveVote = nil
	r.AwaitingNext = false

	s.scheduler.StartRound(r, s.cfg.Game.RoundDuration, s.roundTickTask(r.Code))
}

// endRound evaluates the round boundary: a final round decides the game, any
// earlier round waits for nextRound.
func (s *GameServer) endRound(r *room.Room) {
	s.scheduler.StopRound(r)
	if r.RoundEndTimerID != 0 {
		s.timers.Cancel(r.RoundEndTimerID)
		r.RoundEndTimerID = 0
	}

	submitted := r.Current.LiveCode
	if r.Current.SubmittedFix != "" {
		submitted = r.Current.SubmittedFix
	}

	res := win.AtRoundEnd(r, submitted)
	if res.Over {
		s.endGame(r, res)
		return
	}

	r.AwaitingNext = true
	s.broadcaster.ToRoom(r, network.EventRoundEnded, map[string]interface{}{"room": r.View()})
}

// resolveVote closes the active vote exactly once, applying elimination and
// either ending the game or resuming the round clock. Both the quorum path
// and the timeout path land here; the engine's resolved flag makes the
// second caller a no-op.
func (s *GameServer) resolveVote(r *room.Room) {
	out, ok := s.votes.Resolve(r)
	if !ok {
		return
	}
	s.scheduler.StopVote(r)

	if out.HasClearMajority {
		logger.Log.Infof("Room %s vote eliminated %s", r.Code, out.KickedName)
		s.broadcaster.ToRoom(r, network.EventPlayerDisabled, map[string]interface{}{
			"playerId":   out.KickedID,
			"playerName": out.KickedName,
			"room":       r.View(),
		})
	}

	s.broadcaster.ToRoom(r, network.EventBuzzVoteEnded, map[string]interface{}{
		"shouldKick":       out.HasClearMajority,
		"kickedPlayerName": out.KickedName,
		"room":             r.View(),
	})

	if out.HasClearMajority {
		if res := win.AfterElimination(r, out.KickedID); res.Over {
			s.endGame(r, res)
			return
		}
	}

	s.scheduler.Resume(r, s.roundTickTask(r.Code))
}

// cancelVote drops an open vote without an outcome and resumes the clock.
func (s *GameServer) cancelVote(r *room.Room, reason string) {
	if !s.votes.Cancel(r) {
		return
	}
	s.scheduler.StopVote(r)
	s.broadcaster.ToRoom(r, network.EventVoteCancelled, map[string]interface{}{"reason": reason})
	if r.State == room.StatePlaying {
		s.scheduler.Resume(r, s.roundTickTask(r.Code))
	}
}

// endGame moves the room to results, records the match and stops all timers.
func (s *GameServer) endGame(r *room.Room, res win.Result) {
	s.scheduler.StopAll(r)
	r.State = room.StateResults
	r.Winner = res.Winner
	r.WinReason = res.Reason
	r.AwaitingNext = false

	logger.Log.Infof("Room %s game ended: %s win (%s)", r.Code, res.Winner, res.Reason)
	s.broadcaster.ToRoom(r, network.EventGameEnded, map[string]interface{}{
		"room":   r.View(),
		"winner": res.Winner,
		"reason": res.Reason,
	})

	if s.monitor != nil {
		s.monitor.IncGamesCompleted()
	}

	record := services.Snapshot(r)
	go s.records.RecordGame(record)
}

// leaveCurrentRoom handles both explicit leaves and disconnects. An open
// vote is cancelled unconditionally; the game itself is not re-evaluated on
// departure.
func (s *GameServer) leaveCurrentRoom(sess *session.Session, reason string) {
	if sess.RoomCode == "" {
		return
	}
	code := sess.RoomCode
	playerID := sess.PlayerID
	sess.RoomCode = ""
	sess.PlayerID = ""

	r, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	p, ok := r.Player(playerID)
	if !ok {
		return
	}
	name := p.Name

	if r.ActiveVote != nil {
		s.cancelVote(r, "player "+reason+" during vote")
	}
	if r.BuzzedPlayer == playerID {
		r.BuzzedPlayer = ""
	}

	if _, err := s.rooms.RemovePlayer(code, playerID); err != nil {
		return
	}

	logger.Log.Infof("Player %s %s room %s", name, reason, code)
	s.broadcaster.ToRoom(r, network.EventPlayerLeft, map[string]interface{}{
		"playerId":   playerID,
		"playerName": name,
		"room":       r.View(),
	})
}

// roundTickTask returns the 1-second round tick callback. It fires on a
// timer goroutine and hops onto the loop before touching any state.
func (s *GameServer) roundTickTask(code string) func() {
	return func() {
		s.post(func() {
			r, ok := s.rooms.Get(code)
			if !ok || r.State != room.StatePlaying || r.TimerPaused {
				return
			}
			remaining := s.scheduler.Remaining(r)
			s.broadcaster.ToRoom(r, network.EventTimerUpdate, map[string]interface{}{
				"remaining": int64(remaining / time.Second),
			})
			if remaining <= 0 {
				s.scheduler.StopRound(r)
				s.endRound(r)
			}
		})
	}
}

// voteTickTask returns the 1-second vote countdown broadcast.
func (s *GameServer) voteTickTask(code string) func() {
	return func() {
		s.post(func() {
			r, ok := s.rooms.Get(code)
			if !ok || r.ActiveVote == nil {
				return
			}
			elapsed := time.Since(r.ActiveVote.StartTime)
			remaining := r.ActiveVote.Duration - elapsed
			if remaining < 0 {
				remaining = 0
			}
			s.broadcaster.ToRoom(r, network.EventVoteTimeUpdate, map[string]interface{}{
				"remaining": int64(remaining / time.Second),
			})
		})
	}
}

// voteTimeoutTask returns the single-shot expiry callback for one specific
// vote. Cancel cannot reach a task that already left the queue, so the
// callback checks vote identity, not just presence; a later vote under the
// same room must not be resolved by a stale timeout.
func (s *GameServer) voteTimeoutTask(code string, bv *room.BuzzVote) func() {
	return func() {
		s.post(func() {
			r, ok := s.rooms.Get(code)
			if !ok || r.ActiveVote != bv {
				return
			}
			logger.Log.Infof("Room %s vote timed out", code)
			s.resolveVote(r)
		})
	}
}
