package player

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"syncy/internal/domain"
)

// Apply interprets a relayed envelope as a playback command. The
// message kinds here are a contract between players, not something
// the relay enforces; unknown kinds are ignored.
func (e *Engine) Apply(env map[string]any) {
	kind, _ := env["kind"].(string)
	switch kind {
	case "play":
		if !e.Playing() {
			e.TogglePlay()
		}
	case "pause":
		if e.Playing() {
			e.TogglePlay()
		}
	case "seek":
		if pos, ok := env["pos"].(float64); ok {
			e.Seek(pos)
		}
	case "track":
		t, ok := decodeTrack(env["track"])
		if !ok {
			log.Debug().Str("module", "player").Msg("track envelope without track")
			return
		}
		e.PlayNow(t)
	default:
		log.Debug().Str("module", "player").Str("kind", kind).Msg("ignored envelope")
	}
}

func decodeTrack(v any) (domain.Track, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return domain.Track{}, false
	}
	var t domain.Track
	if err := json.Unmarshal(b, &t); err != nil || t.ID == "" {
		return domain.Track{}, false
	}
	return t, true
}
