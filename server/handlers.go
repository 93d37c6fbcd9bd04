// server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bugbash/gameserver/bugs"
	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/network"
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/session"
	"github.com/bugbash/gameserver/validator"
)

type createRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type castVoteRequest struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

type submitFixRequest struct {
	FixedCode string `json:"fixedCode"`
}

type submitBugRequest struct {
	BuggedCode string `json:"buggedCode"`
}

type validateFixRequest struct {
	Code string `json:"code"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req createRoomRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return nil, ErrInvalidName
	}
	if sess.RoomCode != "" {
		return nil, ErrAlreadyInRoom
	}

	code := s.newRoomCode()
	playerID := uuid.New().String()
	r, err := s.rooms.Create(code, playerID, name)
	if err != nil {
		return nil, err
	}

	sess.PlayerID = playerID
	sess.PlayerName = name
	sess.RoomCode = code
	s.updateRoomGauge()

	logger.Log.Infof("Session %s created room %s", sess.GetID(), code)
	return map[string]interface{}{
		"roomCode": code,
		"playerId": playerID,
		"room":     r.View(),
	}, nil
}

func (s *GameServer) handleJoinRoom(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req joinRoomRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return nil, ErrInvalidName
	}
	if sess.RoomCode != "" {
		return nil, ErrAlreadyInRoom
	}

	playerID := uuid.New().String()
	r, err := s.rooms.AddPlayer(strings.ToUpper(req.RoomCode), playerID, name)
	if err != nil {
		return nil, err
	}

	sess.PlayerID = playerID
	sess.PlayerName = name
	sess.RoomCode = r.Code

	logger.Log.Infof("Session %s joined room %s", sess.GetID(), r.Code)
	s.broadcaster.ToOthers(r, playerID, network.EventPlayerJoined, map[string]interface{}{
		"playerId":   playerID,
		"playerName": name,
		"room":       r.View(),
	})
	return map[string]interface{}{
		"playerId": playerID,
		"room":     r.View(),
	}, nil
}

func (s *GameServer) handlePlayerReady(sess *session.Session) (interface{}, error) {
	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	p, _ := r.Player(sess.PlayerID)
	p.IsReady = !p.IsReady

	s.broadcaster.ToRoom(r, network.EventRoomUpdated, map[string]interface{}{"room": r.View()})
	return map[string]interface{}{"isReady": p.IsReady}, nil
}

func (s *GameServer) handleStartGame(sess *session.Session) (interface{}, error) {
	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	p, _ := r.Player(sess.PlayerID)
	if !p.IsHost {
		return nil, ErrNotHost
	}
	if r.State != room.StateLobby {
		return nil, room.ErrGameInProgress
	}
	if len(r.Players) < s.cfg.Game.MinPlayers {
		return nil, ErrInsufficientPlayers
	}

	r.State = room.StatePlaying
	r.TotalRounds = s.cfg.Game.TotalRounds
	r.CurrentRound = 1
	s.beginRound(r)

	logger.Log.Infof("Room %s started a game with %d players", r.Code, len(r.Players))
	s.broadcaster.ToRoom(r, network.EventGameStarted, map[string]interface{}{"room": r.View()})
	return map[string]interface{}{"room": r.View()}, nil
}

func (s *GameServer) handleBuzz(sess *session.Session) (interface{}, error) {
	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	// A fix has been submitted and the round is wrapping up; a vote opened
	// now would still be live when the round-end review fires.
	if r.RoundEndTimerID != 0 {
		return nil, ErrRoundEnding
	}

	bv, err := s.votes.Open(r, sess.PlayerID)
	if err != nil {
		return nil, err
	}

	s.scheduler.Pause(r)
	s.scheduler.StartVote(r, s.cfg.Game.VoteDuration,
		s.voteTickTask(r.Code), s.voteTimeoutTask(r.Code, bv))
	if s.monitor != nil {
		s.monitor.IncVotesOpened()
	}

	logger.Log.Infof("Player %s buzzed in room %s", sess.PlayerID, r.Code)
	s.broadcaster.ToRoom(r, network.EventPlayerBuzzed, map[string]interface{}{
		"playerId":   bv.InitiatorID,
		"playerName": bv.InitiatorName,
		"vote":       bv.View(),
	})
	return map[string]interface{}{"vote": bv.View()}, nil
}

func (s *GameServer) handleCastBuzzVote(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req castVoteRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}

	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}

	quorum, err := s.votes.Cast(r, sess.PlayerID, req.TargetPlayerID)
	if err != nil {
		return nil, err
	}

	if r.ActiveVote != nil {
		s.broadcaster.ToRoom(r, network.EventBuzzVoteUpdate, map[string]interface{}{
			"vote": r.ActiveVote.View(),
		})
	}
	if quorum {
		s.resolveVote(r)
	}
	return map[string]interface{}{"quorum": quorum}, nil
}

func (s *GameServer) handleSubmitFix(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req submitFixRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}

	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	if r.State != room.StatePlaying || r.Current == nil {
		return nil, ErrGameNotInProgress
	}
	if r.BuzzedPlayer != sess.PlayerID {
		return nil, ErrNotBuzzed
	}
	if r.ActiveVote != nil {
		return nil, ErrVoteInProgress
	}
	if r.RoundEndTimerID != 0 {
		return nil, ErrFixAlreadySubmitted
	}

	r.Current.SubmittedFix = req.FixedCode
	isCorrect := bugs.IsExactFix(req.FixedCode, r.Current.CorrectCode)

	p, _ := r.Player(sess.PlayerID)
	s.broadcaster.ToRoom(r, network.EventFixSubmitted, map[string]interface{}{
		"playerId":   p.ID,
		"playerName": p.Name,
		"isCorrect":  isCorrect,
	})

	code := r.Code
	r.RoundEndTimerID = s.timers.Schedule(s.cfg.Game.FixReviewDelay, 0, func() {
		s.post(func() {
			r, ok := s.rooms.Get(code)
			if !ok || r.State != room.StatePlaying || r.ActiveVote != nil {
				return
			}
			r.RoundEndTimerID = 0
			s.endRound(r)
		})
	})

	return map[string]interface{}{"isCorrect": isCorrect}, nil
}

func (s *GameServer) handleSubmitBug(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req submitBugRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}

	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	if r.State != room.StatePlaying || r.Current == nil {
		return nil, ErrGameNotInProgress
	}
	if sess.PlayerID != r.BuggerID {
		return nil, ErrNotBugger
	}

	// Live sync of the buffer happens over the collaborative-editing channel;
	// here we only keep the latest snapshot for end-of-round evaluation.
	r.Current.LiveCode = req.BuggedCode
	return map[string]interface{}{"accepted": true}, nil
}

func (s *GameServer) handleValidateBugFix(sess *session.Session, env *network.Envelope) (interface{}, error) {
	var req validateFixRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, ErrInvalidPayload
	}

	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	if r.Current == nil {
		return nil, ErrGameNotInProgress
	}

	// The validator may do real work; run it off the loop and ack when done
	// so other rooms keep dispatching.
	vreq := validator.Request{
		Code:      req.Code,
		Language:  r.Current.Language,
		TestCases: r.Current.TestCases,
		Bugs:      r.Current.AssignedOrder,
	}
	seq := env.Seq
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		report, err := s.validator.Validate(ctx, vreq)
		ack := network.Ack{Seq: seq, Success: err == nil}
		if err != nil {
			logger.Log.Warnf("Validator failed for room %s: %v", r.Code, err)
			ack.Error = "ValidatorUnavailable"
		} else {
			ack.Payload = map[string]interface{}{"report": report}
		}
		if sendErr := sess.Send(network.EventAck, ack); sendErr != nil {
			logger.Log.Warnf("Failed to ack validateBugFix for session %s: %v", sess.GetID(), sendErr)
		}
	}()
	return nil, errAsync
}

func (s *GameServer) handleNextRound(sess *session.Session) (interface{}, error) {
	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	p, _ := r.Player(sess.PlayerID)
	if !p.IsHost {
		return nil, ErrNotHost
	}
	if r.State != room.StatePlaying {
		return nil, ErrGameNotInProgress
	}
	if !r.AwaitingNext {
		return nil, ErrRoundNotEnded
	}

	r.CurrentRound++
	s.beginRound(r)

	logger.Log.Infof("Room %s advanced to round %d/%d", r.Code, r.CurrentRound, r.TotalRounds)
	s.broadcaster.ToRoom(r, network.EventRoundStarted, map[string]interface{}{"room": r.View()})
	return map[string]interface{}{"room": r.View()}, nil
}

func (s *GameServer) handlePlayAgain(sess *session.Session) (interface{}, error) {
	r, err := s.currentRoom(sess)
	if err != nil {
		return nil, err
	}
	if r.State != room.StateResults {
		return nil, ErrGameNotFinished
	}

	s.scheduler.StopAll(r)
	r.ResetForLobby()

	s.broadcaster.ToRoom(r, network.EventRoomUpdated, map[string]interface{}{"room": r.View()})
	return map[string]interface{}{"room": r.View()}, nil
}
