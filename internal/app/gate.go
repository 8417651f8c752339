package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"syncy/internal/core"
	"syncy/internal/domain"
)

// ErrMissingParam rejects a connection attempt that lacks a room or
// user id. Fatal to that attempt only, never to the process.
var ErrMissingParam = errors.New("missing required parameter")

// Gate admits transport connections into rooms and owns graceful
// teardown. It trusts caller-supplied identity entirely.
type Gate struct {
	rooms *Registry
}

func NewGate(rooms *Registry) *Gate {
	return &Gate{rooms: rooms}
}

// Admit validates the connect-time parameters, registers the member
// and announces the new roster to the room, newcomer included. The
// rejected connection is never registered anywhere; closing it with a
// policy-violation signal is the adapter's job.
func (g *Gate) Admit(conn core.Conn, roomID, userID, username string, isHost bool) (*core.Member, error) {
	if roomID == "" || userID == "" {
		log.Warn().Str("module", "app.gate").Str("room", roomID).Str("user", userID).Msg("admission rejected")
		return nil, ErrMissingParam
	}

	m := core.NewMember(domain.RoomID(roomID), domain.NewMember(userID, username, isHost), conn)
	for {
		room := g.rooms.GetOrCreate(m.RoomID)
		if room.Join(m, rosterFrame) {
			break
		}
		// Lost a race with DeleteIfEmpty: the room closed between
		// lookup and join. Take a fresh one.
	}
	return m, nil
}

// Remove runs the teardown path exactly once per member: drop it from
// its room, announce the shrunken roster to whoever remains or prune
// the now-empty room, then close the transport.
func (g *Gate) Remove(m *core.Member) {
	m.Teardown(func() {
		if room, ok := g.rooms.Find(m.RoomID); ok {
			if remaining := room.Leave(m, rosterFrame); remaining == 0 {
				g.rooms.DeleteIfEmpty(m.RoomID)
			}
		}
		m.CloseConn()
	})
}
