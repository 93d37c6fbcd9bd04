// sched/sched.go
//
// Round and vote timing. The scheduler is the only writer of the room's
// RoundStartTime/TimerPaused fields; pause stores a remaining-time snapshot
// and resume rewrites the synthetic start time so that duration-elapsed
// recomputes to the snapshot, avoiding drift.
package sched

import (
	"time"

	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/timer"
)

type Scheduler struct {
	timers *timer.Manager
	now    func() time.Time
}

func New(timers *timer.Manager) *Scheduler {
	return &Scheduler{timers: timers, now: time.Now}
}

// StartRound starts the countdown and a 1-second tick. onTick fires on the
// timer goroutine; the caller posts it into its event loop and must re-fetch
// the room there.
func (s *Scheduler) StartRound(r *room.Room, duration time.Duration, onTick func()) {
	s.StopRound(r)
	r.RoundStartTime = s.now()
	r.RoundDuration = duration
	r.TimerPaused = false
	r.PausedRemaining = 0
	r.TickTimerID = s.timers.Schedule(time.Second, time.Second, onTick)
}

// Pause freezes the countdown, snapshotting the remaining time. The tick is
// cancelled so nothing broadcasts while paused.
func (s *Scheduler) Pause(r *room.Room) {
	if r.TimerPaused {
		return
	}
	r.PausedRemaining = r.Remaining(s.now())
	r.TimerPaused = true
	s.timers.Cancel(r.TickTimerID)
	r.TickTimerID = 0
}

// Resume continues the countdown with the frozen remaining time.
func (s *Scheduler) Resume(r *room.Room, onTick func()) {
	if !r.TimerPaused {
		return
	}
	r.RoundStartTime = s.now().Add(r.PausedRemaining - r.RoundDuration)
	r.TimerPaused = false
	r.PausedRemaining = 0
	r.TickTimerID = s.timers.Schedule(time.Second, time.Second, onTick)
}

// StopRound cancels the round tick without touching the clock fields.
func (s *Scheduler) StopRound(r *room.Room) {
	if r.TickTimerID != 0 {
		s.timers.Cancel(r.TickTimerID)
		r.TickTimerID = 0
	}
}

// Remaining returns the round time left right now.
func (s *Scheduler) Remaining(r *room.Room) time.Duration {
	return r.Remaining(s.now())
}

// StartVote schedules the single-shot vote timeout and the 1-second vote
// tick. Both fire on timer goroutines.
func (s *Scheduler) StartVote(r *room.Room, duration time.Duration, onTick, onTimeout func()) {
	s.StopVote(r)
	r.VoteTickTimerID = s.timers.Schedule(time.Second, time.Second, onTick)
	r.VoteTimerID = s.timers.Schedule(duration, 0, onTimeout)
}

// StopVote cancels both vote timers. Called on every vote close so a late
// timeout cannot fire against a new vote.
func (s *Scheduler) StopVote(r *room.Room) {
	if r.VoteTickTimerID != 0 {
		s.timers.Cancel(r.VoteTickTimerID)
		r.VoteTickTimerID = 0
	}
	if r.VoteTimerID != 0 {
		s.timers.Cancel(r.VoteTimerID)
		r.VoteTimerID = 0
	}
}

// StopAll cancels every pending timer the room owns. Used on teardown and
// game end.
func (s *Scheduler) StopAll(r *room.Room) {
	s.StopRound(r)
	s.StopVote(r)
	if r.RoundEndTimerID != 0 {
		s.timers.Cancel(r.RoundEndTimerID)
		r.RoundEndTimerID = 0
	}
}
