package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"syncy/internal/domain"
)

// BroadcastResult reports delivery stats/backpressure to the caller.
type BroadcastResult struct {
	Sent    int
	Dropped int
}

// Room is a threadsafe in-memory member set. It never closes
// adapter-owned resources. All membership mutations and every roster
// read happen under the room's own lock, so rooms proceed fully
// independently of each other.
type Room struct {
	id domain.RoomID

	mu      sync.RWMutex
	members map[*Member]struct{}
	closed  bool
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{id: id, members: make(map[*Member]struct{})}
}

func (r *Room) ID() domain.RoomID { return r.id }

func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Join inserts the member and announces the updated roster to every
// member, the newcomer included, in one critical section: no observer
// can see a roster that omits a freshly admitted member. Returns false
// if the room was already closed by the registry; the caller must
// fetch a fresh room and retry.
func (r *Room) Join(m *Member, announce func([]domain.Member) Frame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.members[m] = struct{}{}
	r.announceLocked(announce)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", m.Info.UserID).Int("count", len(r.members)).Msg("member joined")
	return true
}

// Leave removes the member and, if anyone is left, announces the
// shrunken roster to the remaining members. Returns the remaining
// member count so the caller can prune the empty room.
func (r *Room) Leave(m *Member, announce func([]domain.Member) Frame) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m]; !ok {
		return len(r.members)
	}
	delete(r.members, m)
	if len(r.members) > 0 {
		r.announceLocked(announce)
	}
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("user", m.Info.UserID).Int("count", len(r.members)).Msg("member left")
	return len(r.members)
}

func (r *Room) announceLocked(announce func([]domain.Member) Frame) {
	f := announce(r.rosterLocked())
	if f == nil {
		return
	}
	for m := range r.members {
		_ = m.TrySend(f)
	}
}

func (r *Room) rosterLocked() []domain.Member {
	out := make([]domain.Member, 0, len(r.members))
	for m := range r.members {
		out = append(out, m.Info)
	}
	return out
}

// Roster returns a snapshot of the current membership. Iteration order
// is map order; clients must not rely on it.
func (r *Room) Roster() []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rosterLocked()
}

// Broadcast fans a frame out to every member except the sender. A
// member whose outbound buffer is full is skipped, never waited on.
func (r *Room) Broadcast(from *Member, f Frame) BroadcastResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := BroadcastResult{}
	for m := range r.members {
		if m == from {
			continue
		}
		if err := m.TrySend(f); err != nil {
			res.Dropped++
			continue
		}
		res.Sent++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Int("sent", res.Sent).Int("dropped", res.Dropped).Msg("broadcast")
	return res
}

// CloseIfEmpty marks the room closed when no members remain, so a
// concurrent Join cannot land on a room the registry is deleting.
func (r *Room) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) > 0 {
		return false
	}
	r.closed = true
	return true
}
