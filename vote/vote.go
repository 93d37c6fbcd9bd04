// vote/vote.go
//
// The buzz-triggered elimination vote state machine: none -> open -> resolved.
// The engine mutates vote state on the room; pausing and resuming the round
// clock around a vote is the coordinator's job.
package vote

import (
	"errors"
	"time"

	"github.com/bugbash/gameserver/room"
)

// Error messages double as the wire-level reason codes in acks.
var (
	ErrNotPlaying      = errors.New("GameNotInProgress")
	ErrVoteOpen        = errors.New("VoteAlreadyOpen")
	ErrBuzzerDisabled  = errors.New("Disabled")
	ErrBuzzerNotInRoom = errors.New("NotInRoom")
	ErrNoActiveVote    = errors.New("NoActiveVote")
	ErrNotInRoom       = errors.New("NotInRoom")
	ErrAlreadyDisabled = errors.New("AlreadyDisabled")
	ErrAlreadyVoted    = errors.New("AlreadyVoted")
	ErrUnknownTarget   = errors.New("UnknownTarget")
	ErrTargetDisabled  = errors.New("TargetDisabled")
	ErrSelfVote        = errors.New("SelfVote")
)

// Skip is the target value for an abstention.
const Skip = "skip"

// Outcome is the result of a resolved vote.
type Outcome struct {
	HasClearMajority bool
	KickedID         string
	KickedName       string
	MaxVotes         int
	SecondMaxVotes   int
	BuggerVotedOut   bool
}

type Engine struct {
	duration time.Duration
	now      func() time.Time
}

func NewEngine(duration time.Duration) *Engine {
	return &Engine{duration: duration, now: time.Now}
}

// Open starts a vote on a buzz. A second buzz while a vote is open is
// rejected rather than overwriting it; the open vote is the lock.
func (e *Engine) Open(r *room.Room, buzzerID string) (*room.BuzzVote, error) {
	if r.State != room.StatePlaying {
		return nil, ErrNotPlaying
	}
	buzzer, ok := r.Player(buzzerID)
	if !ok {
		return nil, ErrBuzzerNotInRoom
	}
	if buzzer.Disabled {
		return nil, ErrBuzzerDisabled
	}
	if r.ActiveVote != nil {
		return nil, ErrVoteOpen
	}

	bv := &room.BuzzVote{
		InitiatorID:   buzzerID,
		InitiatorName: buzzer.Name,
		Votes:         make(map[string]string),
		Skips:         make(map[string]struct{}),
		StartTime:     e.now(),
		Duration:      e.duration,
	}
	r.BuzzedPlayer = buzzerID
	r.ActiveVote = bv
	return bv, nil
}

// Cast records a vote or a skip. It returns whether every enabled player has
// now voted or skipped (quorum), which triggers early resolution.
func (e *Engine) Cast(r *room.Room, voterID, targetID string) (quorum bool, err error) {
	bv := r.ActiveVote
	if bv == nil {
		return false, ErrNoActiveVote
	}
	voter, ok := r.Player(voterID)
	if !ok {
		return false, ErrNotInRoom
	}
	if voter.Disabled {
		return false, ErrAlreadyDisabled
	}
	if _, voted := bv.Votes[voterID]; voted {
		return false, ErrAlreadyVoted
	}
	if _, skipped := bv.Skips[voterID]; skipped {
		return false, ErrAlreadyVoted
	}

	if targetID == Skip {
		bv.Skips[voterID] = struct{}{}
	} else {
		target, ok := r.Player(targetID)
		if !ok {
			return false, ErrUnknownTarget
		}
		if target.Disabled {
			return false, ErrTargetDisabled
		}
		if voterID == targetID {
			return false, ErrSelfVote
		}
		bv.Votes[voterID] = targetID
	}

	return e.quorumReached(r, bv), nil
}

// Resolve tallies and closes the vote, disabling the target on a clear
// majority. It is safe to call from both the quorum path and the timeout
// path; the second call reports ok=false and changes nothing.
func (e *Engine) Resolve(r *room.Room) (Outcome, bool) {
	bv := r.ActiveVote
	if bv == nil || bv.Resolved {
		return Outcome{}, false
	}
	bv.Resolved = true

	counts := make(map[string]int)
	for _, targetID := range bv.Votes {
		counts[targetID]++
	}

	var out Outcome
	var topTarget string
	for targetID, n := range counts {
		switch {
		case n > out.MaxVotes:
			out.SecondMaxVotes = out.MaxVotes
			out.MaxVotes = n
			topTarget = targetID
		case n > out.SecondMaxVotes:
			out.SecondMaxVotes = n
		}
	}

	out.HasClearMajority = out.MaxVotes > 0 && out.MaxVotes > out.SecondMaxVotes
	if out.HasClearMajority {
		if target, ok := r.Player(topTarget); ok {
			target.Disabled = true
			out.KickedID = target.ID
			out.KickedName = target.Name
			out.BuggerVotedOut = target.ID == r.BuggerID
		}
	}

	r.ActiveVote = nil
	return out, true
}

// Cancel drops an open vote without an outcome, for example when a voter
// disconnects mid-vote. Reports whether there was a vote to cancel.
func (e *Engine) Cancel(r *room.Room) bool {
	if r.ActiveVote == nil {
		return false
	}
	r.ActiveVote.Resolved = true
	r.ActiveVote = nil
	return true
}

func (e *Engine) quorumReached(r *room.Room, bv *room.BuzzVote) bool {
	for _, id := range r.EnabledPlayers() {
		if _, voted := bv.Votes[id]; voted {
			continue
		}
		if _, skipped := bv.Skips[id]; skipped {
			continue
		}
		return false
	}
	return true
}
