package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Activity struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Action    string          `json:"action"`
	Detail    json.RawMessage `json:"detail"`
	CreatedAt time.Time       `json:"created_at"`
}

// LogActivity is fire-and-forget: a failed insert is logged and
// swallowed so it can never block the action it records.
func (s *Store) LogActivity(ctx context.Context, userID, email, action string, detail map[string]any) {
	if userID == "" {
		return
	}
	d := []byte("{}")
	if len(detail) > 0 {
		if b, err := json.Marshal(detail); err == nil {
			d = b
		}
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO user_activity (user_id, email, action, detail)
		VALUES (?, ?, ?, ?)
	`, userID, email, action, string(d)); err != nil {
		log.Warn().Err(err).Str("module", "store").Str("action", action).Msg("activity insert failed")
	}
}

func (s *Store) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, email, action, detail, created_at
		FROM user_activity ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		var detail string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Email, &a.Action, &detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Detail = json.RawMessage(detail)
		out = append(out, a)
	}
	return out, rows.Err()
}
