package network

// Inbound actions. Every action is answered with an "ack" event echoing the
// envelope's seq.
const (
	ActionPing           = "ping"
	ActionCreateRoom     = "createRoom"
	ActionJoinRoom       = "joinRoom"
	ActionPlayerReady    = "playerReady"
	ActionStartGame      = "startGame"
	ActionBuzz           = "buzz"
	ActionCastBuzzVote   = "castBuzzVote"
	ActionSubmitFix      = "submitFix"
	ActionSubmitBug      = "submitBug"
	ActionValidateBugFix = "validateBugFix"
	ActionNextRound      = "nextRound"
	ActionPlayAgain      = "playAgain"
	ActionLeaveRoom      = "leaveRoom"
)

// Outbound events.
const (
	EventAck            = "ack"
	EventPlayerJoined   = "playerJoined"
	EventPlayerLeft     = "playerLeft"
	EventRoomUpdated    = "roomUpdated"
	EventGameStarted    = "gameStarted"
	EventRoundStarted   = "roundStarted"
	EventRoundEnded     = "roundEnded"
	EventGameEnded      = "gameEnded"
	EventTimerUpdate    = "timerUpdate"
	EventVoteTimeUpdate = "voteTimeUpdate"
	EventPlayerBuzzed   = "playerBuzzed"
	EventBuzzVoteUpdate = "buzzVoteUpdated"
	EventBuzzVoteEnded  = "buzzVoteEnded"
	EventVoteCancelled  = "voteCancelled"
	EventPlayerDisabled = "playerDisabled"
	EventFixSubmitted   = "fixSubmitted"
)
