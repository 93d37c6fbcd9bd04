// room/view.go
//
// Wire views of the room. Internal maps become arrays or plain objects with
// stable field names and stable ordering, so every client observes the same
// serialized state across round and vote transitions.
package room

import (
	"sort"
	"time"

	"github.com/bugbash/gameserver/bugs"
)

type PlayerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsHost   bool   `json:"isHost"`
	IsReady  bool   `json:"isReady"`
	Role     Role   `json:"role"`
	Disabled bool   `json:"disabled"`
}

type VoteEntry struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId"`
}

type VoteView struct {
	InitiatorID   string      `json:"initiatorId"`
	InitiatorName string      `json:"initiatorName"`
	Votes         []VoteEntry `json:"votes"`
	Skips         []string    `json:"skips"`
	StartTime     int64       `json:"startTime"`
	Duration      int64       `json:"duration"`
}

type CodeView struct {
	SampleID         string                     `json:"sampleId"`
	Language         string                     `json:"language"`
	CorrectCode      string                     `json:"correctCode"`
	InitialBuggyCode string                     `json:"initialBuggyCode"`
	BugAssignments   map[string]bugs.Descriptor `json:"bugAssignments"`
	TestCases        []bugs.TestCase            `json:"testCases"`
}

type RoomView struct {
	Code          string       `json:"code"`
	Players       []PlayerView `json:"players"`
	GameState     GameState    `json:"gameState"`
	CurrentRound  int          `json:"currentRound"`
	TotalRounds   int          `json:"totalRounds"`
	RoundDuration int64        `json:"roundDuration"`
	RemainingTime int64        `json:"remainingTime"`
	TimerPaused   bool         `json:"timerPaused"`
	CurrentCode   *CodeView    `json:"currentCode,omitempty"`
	Bugger        string       `json:"bugger,omitempty"`
	Debuggers     []string     `json:"debuggers,omitempty"`
	BuzzedPlayer  string       `json:"buzzedPlayer,omitempty"`
	ActiveVote    *VoteView    `json:"activeVote,omitempty"`
	Winner        string       `json:"winner,omitempty"`
	WinReason     string       `json:"winReason,omitempty"`
}

// View serializes the room for broadcast.
func (r *Room) View() *RoomView {
	v := &RoomView{
		Code:          r.Code,
		Players:       make([]PlayerView, 0, len(r.Players)),
		GameState:     r.State,
		CurrentRound:  r.CurrentRound,
		TotalRounds:   r.TotalRounds,
		RoundDuration: int64(r.RoundDuration / time.Second),
		RemainingTime: int64(r.Remaining(time.Now()) / time.Second),
		TimerPaused:   r.TimerPaused,
		Bugger:        r.BuggerID,
		Debuggers:     r.Debuggers,
		BuzzedPlayer:  r.BuzzedPlayer,
		Winner:        r.Winner,
		WinReason:     r.WinReason,
	}

	for _, p := range r.PlayersInOrder() {
		v.Players = append(v.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			IsHost:   p.IsHost,
			IsReady:  p.IsReady,
			Role:     p.Role,
			Disabled: p.Disabled,
		})
	}

	if r.Current != nil {
		v.CurrentCode = &CodeView{
			SampleID:         r.Current.SampleID,
			Language:         r.Current.Language,
			CorrectCode:      r.Current.CorrectCode,
			InitialBuggyCode: r.Current.InitialBuggyCode,
			BugAssignments:   r.Current.BugAssignments,
			TestCases:        r.Current.TestCases,
		}
	}

	if r.ActiveVote != nil {
		v.ActiveVote = r.ActiveVote.View()
	}
	return v
}

// View serializes an in-flight vote with deterministic ordering.
func (bv *BuzzVote) View() *VoteView {
	v := &VoteView{
		InitiatorID:   bv.InitiatorID,
		InitiatorName: bv.InitiatorName,
		Votes:         make([]VoteEntry, 0, len(bv.Votes)),
		Skips:         make([]string, 0, len(bv.Skips)),
		StartTime:     bv.StartTime.UnixMilli(),
		Duration:      bv.Duration.Milliseconds(),
	}

	for voter, target := range bv.Votes {
		v.Votes = append(v.Votes, VoteEntry{VoterID: voter, TargetID: target})
	}
	sort.Slice(v.Votes, func(i, j int) bool { return v.Votes[i].VoterID < v.Votes[j].VoterID })

	for voter := range bv.Skips {
		v.Skips = append(v.Skips, voter)
	}
	sort.Strings(v.Skips)
	return v
}
