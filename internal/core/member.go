package core

import (
	"sync"

	"syncy/internal/domain"
)

// Member is one admitted connection inside a room. Membership identity
// is the *Member pointer itself, never the caller-supplied user id, so
// two connections sharing a user id are tracked as distinct members.
type Member struct {
	Info   domain.Member
	RoomID domain.RoomID

	conn Conn
	done sync.Once
}

func NewMember(roomID domain.RoomID, info domain.Member, conn Conn) *Member {
	return &Member{Info: info, RoomID: roomID, conn: conn}
}

func (m *Member) TrySend(f Frame) error { return m.conn.TrySend(f) }

// Teardown runs f on the first call and never again, regardless of
// whether the client or the transport layer initiated the close.
func (m *Member) Teardown(f func()) { m.done.Do(f) }

// CloseConn closes the underlying transport. The member exclusively
// owns its connection; this is the one place it gets closed.
func (m *Member) CloseConn() { m.conn.Close() }
