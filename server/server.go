// server/server.go
package server

import (
	"errors"
	"math/rand"
	"net/http"
	netrpc "net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bugbash/gameserver/broadcast"
	"github.com/bugbash/gameserver/config"
	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/monitor"
	"github.com/bugbash/gameserver/network"
	"github.com/bugbash/gameserver/persistence"
	"github.com/bugbash/gameserver/room"
	gameserverrpc "github.com/bugbash/gameserver/rpc"
	"github.com/bugbash/gameserver/sched"
	"github.com/bugbash/gameserver/services"
	"github.com/bugbash/gameserver/session"
	"github.com/bugbash/gameserver/timer"
	"github.com/bugbash/gameserver/validator"
	"github.com/bugbash/gameserver/vote"
)

// Error messages double as the wire-level reason codes in acks.
var (
	ErrInvalidPayload      = errors.New("InvalidPayload")
	ErrInvalidName         = errors.New("InvalidName")
	ErrAlreadyInRoom       = errors.New("AlreadyInRoom")
	ErrNotInRoom           = errors.New("NotInRoom")
	ErrNotHost             = errors.New("NotHost")
	ErrInsufficientPlayers = errors.New("InsufficientPlayers")
	ErrGameNotInProgress   = errors.New("GameNotInProgress")
	ErrNotBuzzed           = errors.New("NotBuzzed")
	ErrVoteInProgress      = errors.New("VoteInProgress")
	ErrRoundEnding         = errors.New("RoundEnding")
	ErrNotBugger           = errors.New("NotBugger")
	ErrRoundNotEnded       = errors.New("RoundNotEnded")
	ErrGameNotFinished     = errors.New("GameNotFinished")
	ErrFixAlreadySubmitted = errors.New("FixAlreadySubmitted")
)

// errAsync tells dispatch that the handler acks on its own, off the loop.
var errAsync = errors.New("async ack")

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// GameServer is the session coordinator: it owns the event loop that
// serializes every client action and timer firing against room state, and
// wires the room store, role assignment, bug injection, vote engine, round
// scheduler and win evaluation together.
type GameServer struct {
	cfg         *config.Config
	upgrader    websocket.Upgrader
	rooms       *room.Store
	sessions    *session.Manager
	broadcaster broadcast.Broadcaster
	timers      *timer.Manager
	scheduler   *sched.Scheduler
	votes       *vote.Engine
	validator   validator.Validator
	records     *services.RecordService
	monitor     *monitor.Monitor
	rpcServer   *gameserverrpc.Server
	rng         *rand.Rand

	tasks    chan func()
	shutdown chan struct{}
}

// NewGameServer builds the full server, including the RPC listener and the
// prometheus monitor.
func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := newCoordinator(cfg, db, validator.NewStatic())
	s.monitor = monitor.NewMonitor("bugbash")

	rpcServer, err := gameserverrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	netrpc.Register(gameserverrpc.NewStatsService(s.records))

	return s
}

// newCoordinator builds the coordinator without listeners or metrics; tests
// use it directly.
func newCoordinator(cfg *config.Config, db persistence.Database, v validator.Validator) *GameServer {
	s := &GameServer{
		cfg:       cfg,
		sessions:  session.NewManager(),
		timers:    timer.NewManager(),
		votes:     vote.NewEngine(cfg.Game.VoteDuration),
		validator: v,
		records:   services.NewRecordService(db),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tasks:     make(chan func(), 1024),
		shutdown:  make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessions)
	s.scheduler = sched.New(s.timers)
	s.rooms = room.NewStore(s.timers, room.StoreConfig{
		MaxPlayers:     cfg.Game.MaxPlayers,
		EmptyRoomGrace: cfg.Game.EmptyRoomGrace,
		RoomMaxAge:     cfg.Game.RoomMaxAge,
		SweepInterval:  cfg.Game.SweepInterval,
	})
	s.rooms.OnEvict = func(r *room.Room) {
		s.post(func() {
			s.scheduler.StopAll(r)
			s.updateRoomGauge()
		})
	}

	go s.run()
	return s
}

func (s *GameServer) Start() error {
	if s.rpcServer != nil {
		go s.rpcServer.Start()
	}
	if s.monitor != nil {
		s.monitor.StartServer(s.cfg.Server.MetricsAddress)
	}
	s.rooms.StartSweep()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdown)
	s.rooms.StopSweep()
	s.timers.Stop()
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

// run is the event loop. Every client action and every timer firing executes
// here, one at a time, so cross-task invariants only need re-checking at the
// top of each handler.
func (s *GameServer) run() {
	for {
		select {
		case task := <-s.tasks:
			task()
		case <-s.shutdown:
			return
		}
	}
}

// post queues a task onto the event loop.
func (s *GameServer) post(task func()) {
	select {
	case s.tasks <- task:
	case <-s.shutdown:
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(network.NewWSConnection(conn))
}

func (s *GameServer) handleConnection(conn network.Connection) {
	sess := session.NewSession(uuid.New().String(), conn)
	s.sessions.Add(sess)
	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed, session ID: %s", sess.GetID())
		s.post(func() {
			s.leaveCurrentRoom(sess, "disconnected")
		})
		s.sessions.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
		}
		conn.Close()
	}()

	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			return
		}
		s.post(func() {
			s.dispatch(sess, env)
		})
	}
}

// dispatch runs one action on the loop and acks it. Handlers never panic the
// loop; every failure is returned through the acknowledgement.
func (s *GameServer) dispatch(sess *session.Session, env *network.Envelope) {
	start := time.Now()
	if s.monitor != nil {
		s.monitor.IncActionsReceived()
	}

	payload, err := s.handleAction(sess, env)
	if err == errAsync {
		return
	}

	ack := network.Ack{Seq: env.Seq, Success: err == nil, Payload: payload}
	if err != nil {
		ack.Error = err.Error()
	}
	if sendErr := sess.Send(network.EventAck, ack); sendErr != nil {
		logger.Log.Warnf("Failed to ack %s for session %s: %v", env.Action, sess.GetID(), sendErr)
	}

	if s.monitor != nil {
		s.monitor.ObserveActionLatency(time.Since(start))
	}
}

func (s *GameServer) handleAction(sess *session.Session, env *network.Envelope) (interface{}, error) {
	switch env.Action {
	case network.ActionPing:
		sess.LastActive = time.Now()
		return map[string]interface{}{"serverTime": time.Now().UnixMilli()}, nil
	case network.ActionCreateRoom:
		return s.handleCreateRoom(sess, env)
	case network.ActionJoinRoom:
		return s.handleJoinRoom(sess, env)
	case network.ActionPlayerReady:
		return s.handlePlayerReady(sess)
	case network.ActionStartGame:
		return s.handleStartGame(sess)
	case network.ActionBuzz:
		return s.handleBuzz(sess)
	case network.ActionCastBuzzVote:
		return s.handleCastBuzzVote(sess, env)
	case network.ActionSubmitFix:
		return s.handleSubmitFix(sess, env)
	case network.ActionSubmitBug:
		return s.handleSubmitBug(sess, env)
	case network.ActionValidateBugFix:
		return s.handleValidateBugFix(sess, env)
	case network.ActionNextRound:
		return s.handleNextRound(sess)
	case network.ActionPlayAgain:
		return s.handlePlayAgain(sess)
	case network.ActionLeaveRoom:
		s.leaveCurrentRoom(sess, "left")
		return map[string]interface{}{"left": true}, nil
	default:
		logger.Log.Infof("Unknown action %q from session %s", env.Action, sess.GetID())
		return nil, ErrInvalidPayload
	}
}

// currentRoom resolves the caller's room, re-fetched from the store so stale
// sessions fail cleanly.
func (s *GameServer) currentRoom(sess *session.Session) (*room.Room, error) {
	if sess.RoomCode == "" {
		return nil, ErrNotInRoom
	}
	r, ok := s.rooms.Get(sess.RoomCode)
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	if _, ok := r.Player(sess.PlayerID); !ok {
		return nil, ErrNotInRoom
	}
	return r, nil
}

func (s *GameServer) newRoomCode() string {
	for {
		code := make([]byte, 4)
		for i := range code {
			code[i] = roomCodeAlphabet[s.rng.Intn(len(roomCodeAlphabet))]
		}
		if !s.rooms.Exists(string(code)) {
			return string(code)
		}
	}
}

func (s *GameServer) updateRoomGauge() {
	if s.monitor != nil {
		s.monitor.SetActiveRooms(s.rooms.Count())
	}
}
