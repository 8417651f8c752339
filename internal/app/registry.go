package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"syncy/internal/core"
	"syncy/internal/domain"
)

// Registry is the authoritative room table. Rooms are created lazily
// on first admission and deleted once their last member is gone; a
// room object exists in the table iff it has at least one member (or
// is in the middle of its very first admission).
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*core.Room)}
}

func (g *Registry) GetOrCreate(id domain.RoomID) *core.Room {
	g.mu.RLock()
	room, ok := g.rooms[id]
	g.mu.RUnlock()
	if ok {
		return room
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok = g.rooms[id]; ok {
		return room
	}
	room = core.NewRoom(id)
	g.rooms[id] = room
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room created")
	return room
}

func (g *Registry) Find(id domain.RoomID) (*core.Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// DeleteIfEmpty prunes the room when no members remain. Idempotent and
// safe to call redundantly: a room that was repopulated, already
// deleted, or never existed is left alone.
func (g *Registry) DeleteIfEmpty(id domain.RoomID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return false
	}
	if !room.CloseIfEmpty() {
		return false
	}
	delete(g.rooms, id)
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room destroyed")
	return true
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
