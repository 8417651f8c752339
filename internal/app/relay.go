package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"syncy/internal/core"
	"syncy/internal/metrics"
)

// serverTimeKey is reserved on the wire: whatever the client put there
// is overwritten with the relay's receipt time. Collaborators depend
// on this exact behavior.
const serverTimeKey = "_serverTime"

// Relay forwards opaque envelopes from a member to the rest of its
// room. It never inspects message semantics; play, pause, seek and
// chat are all the same to it.
type Relay struct {
	rooms *Registry
	now   func() time.Time
}

func NewRelay(rooms *Registry) *Relay {
	return &Relay{rooms: rooms, now: time.Now}
}

// Relay parses raw as a JSON object, stamps the receipt time and fans
// it out to everyone in the sender's room except the sender. Malformed
// payloads are dropped silently: no error to the sender, no
// disconnect. Unreachable recipients are skipped, never retried.
func (r *Relay) Relay(sender *core.Member, raw []byte) {
	var env map[string]any
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		// env stays nil for the literal `null`, which unmarshals fine.
		metrics.MalformedPayloads.Inc()
		log.Debug().Err(err).Str("module", "app.relay").Str("room", string(sender.RoomID)).Msg("malformed payload dropped")
		return
	}
	env[serverTimeKey] = r.now().UnixMilli()

	b, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("envelope marshal")
		return
	}

	room, ok := r.rooms.Find(sender.RoomID)
	if !ok {
		return
	}
	res := room.Broadcast(sender, b)
	metrics.MessagesRelayed.Inc()
	if res.Dropped > 0 {
		metrics.SendsDropped.Add(float64(res.Dropped))
		log.Warn().Str("module", "app.relay").Str("room", string(sender.RoomID)).Int("dropped", res.Dropped).Msg("slow recipients skipped")
	}
}
