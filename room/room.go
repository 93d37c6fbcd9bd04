// room/room.go
package room

import (
	"errors"
	"time"

	"github.com/bugbash/gameserver/bugs"
)

// GameState governs which actions a room accepts.
type GameState string

const (
	StateLobby   GameState = "lobby"
	StatePlaying GameState = "playing"
	StateResults GameState = "results"
)

// Role is a player's assignment for the current round.
type Role string

const (
	RoleNone     Role = "none"
	RoleBugger   Role = "bugger"
	RoleDebugger Role = "debugger"
)

// Error messages double as the wire-level reason codes in acks.
var (
	ErrRoomExists     = errors.New("RoomExists")
	ErrRoomNotFound   = errors.New("RoomNotFound")
	ErrRoomFull       = errors.New("RoomFull")
	ErrGameInProgress = errors.New("GameInProgress")
	ErrPlayerNotFound = errors.New("PlayerNotFound")
)

// Player occupies a seat in a room. A disabled player keeps the seat but is
// excluded from quorum and future gameplay actions; only leave/disconnect
// removes the entry.
type Player struct {
	ID       string
	Name     string
	IsHost   bool
	IsReady  bool
	Role     Role
	Disabled bool
}

// RoundCode is the active round's code artifact.
type RoundCode struct {
	SampleID         string
	Language         string
	CorrectCode      string
	InitialBuggyCode string
	LiveCode         string
	SubmittedFix     string
	BugAssignments   map[string]bugs.Descriptor
	AssignedOrder    []bugs.Descriptor
	TestCases        []bugs.TestCase
}

// BuzzVote is an in-flight elimination vote. Resolved guards against the
// quorum and timeout paths both applying the outcome.
type BuzzVote struct {
	InitiatorID   string
	InitiatorName string
	Votes         map[string]string
	Skips         map[string]struct{}
	StartTime     time.Time
	Duration      time.Duration
	Resolved      bool
}

// Room is one game session. All game-state fields are mutated only from the
// coordinator's event loop; membership is managed by the Store.
type Room struct {
	Code      string
	Players   map[string]*Player
	JoinOrder []string
	State     GameState
	CreatedAt time.Time

	CurrentRound int
	TotalRounds  int

	RoundStartTime  time.Time
	RoundDuration   time.Duration
	TimerPaused     bool
	PausedRemaining time.Duration
	AwaitingNext    bool

	Current      *RoundCode
	BuggerID     string
	Debuggers    []string
	BuzzedPlayer string
	ActiveVote   *BuzzVote

	Winner    string
	WinReason string

	// Pending timer ids, cancelled on round advance, vote close and teardown.
	TickTimerID     int64
	VoteTimerID     int64
	VoteTickTimerID int64
	RoundEndTimerID int64

	deleteTimerID int64
}

func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		Players:   make(map[string]*Player),
		State:     StateLobby,
		CreatedAt: time.Now(),
	}
}

// Player looks up a seat by player id.
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.Players[id]
	return p, ok
}

// PlayersInOrder returns all seats in join order.
func (r *Room) PlayersInOrder() []*Player {
	players := make([]*Player, 0, len(r.JoinOrder))
	for _, id := range r.JoinOrder {
		if p, ok := r.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

// EnabledPlayers returns the ids of non-disabled players in join order.
func (r *Room) EnabledPlayers() []string {
	var ids []string
	for _, id := range r.JoinOrder {
		if p, ok := r.Players[id]; ok && !p.Disabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// Host returns the current host, or nil for an empty room.
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// Remaining computes the round time left at now. While paused it returns the
// frozen snapshot.
func (r *Room) Remaining(now time.Time) time.Duration {
	if r.TimerPaused {
		return r.PausedRemaining
	}
	if r.RoundStartTime.IsZero() {
		return 0
	}
	remaining := r.RoundDuration - now.Sub(r.RoundStartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetForLobby rewinds the room to a fresh lobby, keeping the seats.
func (r *Room) ResetForLobby() {
	r.State = StateLobby
	r.CurrentRound = 0
	r.RoundStartTime = time.Time{}
	r.TimerPaused = false
	r.PausedRemaining = 0
	r.AwaitingNext = false
	r.Current = nil
	r.BuggerID = ""
	r.Debuggers = nil
	r.BuzzedPlayer = ""
	r.ActiveVote = nil
	r.Winner = ""
	r.WinReason = ""
	for _, p := range r.Players {
		p.IsReady = false
		p.Role = RoleNone
		p.Disabled = false
	}
}
