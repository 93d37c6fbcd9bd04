package broadcast

import (
	"net"
	"sync"
	"testing"

	"github.com/bugbash/gameserver/network"
	"github.com/bugbash/gameserver/room"
	"github.com/bugbash/gameserver/session"
)

type captureConn struct {
	mutex  sync.Mutex
	events []string
}

func (c *captureConn) Send(event string, data interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureConn) ReadEnvelope() (*network.Envelope, error) { return nil, nil }
func (c *captureConn) Close() error                             { return nil }
func (c *captureConn) RemoteAddr() net.Addr                     { return &net.TCPAddr{} }

func (c *captureConn) count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.events)
}

func setup() (*RoomBroadcaster, *room.Room, map[string]*captureConn) {
	sessions := session.NewManager()
	r := room.NewRoom("ABCD")
	conns := make(map[string]*captureConn)

	for _, id := range []string{"p1", "p2", "p3"} {
		conn := &captureConn{}
		conns[id] = conn

		sess := session.NewSession("sess-"+id, conn)
		sess.PlayerID = id
		sessions.Add(sess)

		r.Players[id] = &room.Player{ID: id, Name: id}
		r.JoinOrder = append(r.JoinOrder, id)
	}
	return NewRoomBroadcaster(sessions), r, conns
}

func TestToRoom(t *testing.T) {
	b, r, conns := setup()

	b.ToRoom(r, network.EventRoomUpdated, nil)
	for id, conn := range conns {
		if conn.count() != 1 {
			t.Errorf("Player %s received %d events, want 1", id, conn.count())
		}
	}
}

func TestToOthers(t *testing.T) {
	b, r, conns := setup()

	b.ToOthers(r, "p2", network.EventPlayerJoined, nil)
	if conns["p2"].count() != 0 {
		t.Error("Excluded player must not receive the event")
	}
	if conns["p1"].count() != 1 || conns["p3"].count() != 1 {
		t.Error("Other players must receive the event")
	}
}

func TestToPlayer(t *testing.T) {
	b, _, conns := setup()

	b.ToPlayer("p3", network.EventTimerUpdate, nil)
	if conns["p3"].count() != 1 {
		t.Errorf("Target received %d events, want 1", conns["p3"].count())
	}
	if conns["p1"].count() != 0 {
		t.Error("Only the target may receive the event")
	}

	// Unknown ids are skipped silently.
	b.ToPlayer("ghost", network.EventTimerUpdate, nil)
}

func TestToRoom_SkipsSeatsWithoutSessions(t *testing.T) {
	b, r, conns := setup()

	r.Players["p4"] = &room.Player{ID: "p4", Name: "p4"}
	r.JoinOrder = append(r.JoinOrder, "p4")

	b.ToRoom(r, network.EventRoomUpdated, nil)
	for _, id := range []string{"p1", "p2", "p3"} {
		if conns[id].count() != 1 {
			t.Errorf("Player %s received %d events, want 1", id, conns[id].count())
		}
	}
}
