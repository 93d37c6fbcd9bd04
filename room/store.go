// room/store.go
package room

import (
	"sync"
	"time"

	"github.com/bugbash/gameserver/timer"
)

// StoreConfig tunes room lifecycle housekeeping.
type StoreConfig struct {
	MaxPlayers     int
	EmptyRoomGrace time.Duration
	RoomMaxAge     time.Duration
	SweepInterval  time.Duration
}

// Store is the in-memory room registry. It owns creation, lookup, deletion
// and idle cleanup; game-state mutation belongs to the coordinator.
type Store struct {
	rooms   map[string]*Room
	mutex   sync.RWMutex
	timers  *timer.Manager
	cfg     StoreConfig
	sweepID int64

	// OnEvict is invoked (off the caller's goroutine) after a room is removed
	// by the grace timer or the age sweep, so the coordinator can cancel the
	// room's pending timers.
	OnEvict func(*Room)
}

func NewStore(timers *timer.Manager, cfg StoreConfig) *Store {
	return &Store{
		rooms:  make(map[string]*Room),
		timers: timers,
		cfg:    cfg,
	}
}

// Create registers a new room with its host seated. The caller pre-allocates
// a unique code; a duplicate fails.
func (s *Store) Create(code, hostID, hostName string) (*Room, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.rooms[code]; exists {
		return nil, ErrRoomExists
	}

	r := NewRoom(code)
	r.Players[hostID] = &Player{ID: hostID, Name: hostName, IsHost: true, Role: RoleNone}
	r.JoinOrder = append(r.JoinOrder, hostID)
	s.rooms[code] = r
	return r, nil
}

// Get looks up a room by code.
func (s *Store) Get(code string) (*Room, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	r, exists := s.rooms[code]
	return r, exists
}

// Exists reports whether a code is taken.
func (s *Store) Exists(code string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, exists := s.rooms[code]
	return exists
}

// Count returns the number of live rooms.
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.rooms)
}

// AddPlayer seats a player. The first player to join an empty room becomes
// host. A successful add cancels any pending empty-room deletion.
func (s *Store) AddPlayer(code, playerID, name string) (*Room, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	r, exists := s.rooms[code]
	if !exists {
		return nil, ErrRoomNotFound
	}
	if len(r.Players) >= s.cfg.MaxPlayers {
		return nil, ErrRoomFull
	}
	if r.State != StateLobby {
		return nil, ErrGameInProgress
	}

	if r.deleteTimerID != 0 {
		s.timers.Cancel(r.deleteTimerID)
		r.deleteTimerID = 0
	}

	p := &Player{ID: playerID, Name: name, Role: RoleNone}
	if len(r.Players) == 0 {
		p.IsHost = true
	}
	r.Players[playerID] = p
	r.JoinOrder = append(r.JoinOrder, playerID)
	return r, nil
}

// RemovePlayer unseats a player, promoting the next-joined player to host if
// needed. An emptied room is deleted after the configured grace period.
func (s *Store) RemovePlayer(code, playerID string) (*Room, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	r, exists := s.rooms[code]
	if !exists {
		return nil, ErrRoomNotFound
	}
	p, exists := r.Players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}

	wasHost := p.IsHost
	delete(r.Players, playerID)
	for i, id := range r.JoinOrder {
		if id == playerID {
			r.JoinOrder = append(r.JoinOrder[:i], r.JoinOrder[i+1:]...)
			break
		}
	}

	if wasHost {
		for _, id := range r.JoinOrder {
			if next, ok := r.Players[id]; ok {
				next.IsHost = true
				break
			}
		}
	}

	if len(r.Players) == 0 {
		code := r.Code
		r.deleteTimerID = s.timers.Schedule(s.cfg.EmptyRoomGrace, 0, func() {
			s.deleteIfEmpty(code)
		})
	}
	return r, nil
}

// Delete removes a room immediately.
func (s *Store) Delete(code string) {
	s.mutex.Lock()
	r, exists := s.rooms[code]
	if exists {
		if r.deleteTimerID != 0 {
			s.timers.Cancel(r.deleteTimerID)
		}
		delete(s.rooms, code)
	}
	s.mutex.Unlock()

	if exists {
		s.evict(r)
	}
}

// StartSweep begins the periodic age sweep: any room older than RoomMaxAge is
// deleted unconditionally, occupied or not.
func (s *Store) StartSweep() {
	s.sweepID = s.timers.Schedule(s.cfg.SweepInterval, s.cfg.SweepInterval, s.sweep)
}

// StopSweep cancels the periodic sweep.
func (s *Store) StopSweep() {
	s.timers.Cancel(s.sweepID)
}

func (s *Store) sweep() {
	cutoff := time.Now().Add(-s.cfg.RoomMaxAge)

	s.mutex.Lock()
	var evicted []*Room
	for code, r := range s.rooms {
		if r.CreatedAt.Before(cutoff) {
			delete(s.rooms, code)
			evicted = append(evicted, r)
		}
	}
	s.mutex.Unlock()

	for _, r := range evicted {
		s.evict(r)
	}
}

func (s *Store) deleteIfEmpty(code string) {
	s.mutex.Lock()
	r, exists := s.rooms[code]
	if !exists || len(r.Players) > 0 {
		s.mutex.Unlock()
		return
	}
	delete(s.rooms, code)
	s.mutex.Unlock()

	s.evict(r)
}

func (s *Store) evict(r *Room) {
	if s.OnEvict != nil {
		s.OnEvict(r)
	}
}
