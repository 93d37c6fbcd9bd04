// broadcast/broadcast.go
package broadcast

import (
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/session"
)

// Broadcaster fans events out to room members. Send failures are skipped;
// the read loop notices dead connections and handles the disconnect.
type Broadcaster interface {
	ToRoom(r *room.Room, event string, data interface{})
	ToOthers(r *room.Room, exceptPlayerID, event string, data interface{})
	ToPlayer(playerID, event string, data interface{})
}

// RoomBroadcaster resolves room seats to live sessions.
type RoomBroadcaster struct {
	sessions *session.Manager
}

func NewRoomBroadcaster(sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{sessions: sessions}
}

func (b *RoomBroadcaster) ToRoom(r *room.Room, event string, data interface{}) {
	b.ToOthers(r, "", event, data)
}

func (b *RoomBroadcaster) ToOthers(r *room.Room, exceptPlayerID, event string, data interface{}) {
	for _, id := range r.JoinOrder {
		if id == exceptPlayerID {
			continue
		}
		if sess, ok := b.sessions.GetByPlayerID(id); ok {
			_ = sess.Send(event, data)
		}
	}
}

func (b *RoomBroadcaster) ToPlayer(playerID, event string, data interface{}) {
	if sess, ok := b.sessions.GetByPlayerID(playerID); ok {
		_ = sess.Send(event, data)
	}
}
