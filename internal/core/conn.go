package core

import "errors"

// Frame is a raw binary payload.
type Frame []byte

var ErrBackpressure = errors.New("backpressure")

// Conn abstracts a member's transport endpoint.
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: a full outbound buffer is an error,
// not a stall.
type Conn interface {
	TrySend(Frame) error
	Close()
}
