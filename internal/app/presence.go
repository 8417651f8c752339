package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"syncy/internal/core"
	"syncy/internal/domain"
)

const KindMembers = "members"

type presencePayload struct {
	Kind    string          `json:"kind"`
	Members []domain.Member `json:"members"`
}

// rosterFrame encodes the presence payload for a roster snapshot. It
// is purely descriptive: duplicate user ids and multiple host flags
// pass through untouched.
func rosterFrame(members []domain.Member) core.Frame {
	b, err := json.Marshal(presencePayload{Kind: KindMembers, Members: members})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("roster marshal")
		return nil
	}
	return b
}
