package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Room is a directory record, not live relay state. A process restart
// keeps these rows but loses every live room.
type Room struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	HostID    string          `json:"host_id"`
	Passcode  string          `json:"passcode,omitempty"`
	Status    string          `json:"status"`
	Queue     json.RawMessage `json:"queue"`
	CreatedAt time.Time       `json:"created_at"`
}

type RoomMember struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// RoomUpdate carries the optional fields of a partial update; nil
// fields are left untouched. The queue column is pass-through JSON,
// no schema is enforced on it.
type RoomUpdate struct {
	Name   *string
	Status *string
	Queue  json.RawMessage
}

const roomCols = "id, name, host_id, passcode, status, queue, created_at"

func scanRoom(row interface{ Scan(...any) error }) (Room, error) {
	var r Room
	var passcode sql.NullString
	var queue string
	if err := row.Scan(&r.ID, &r.Name, &r.HostID, &passcode, &r.Status, &queue, &r.CreatedAt); err != nil {
		return Room{}, err
	}
	r.Passcode = passcode.String
	r.Queue = json.RawMessage(queue)
	return r, nil
}

func (s *Store) CreateRoom(ctx context.Context, name, hostID, passcode string) (Room, error) {
	id := uuid.NewString()
	var pc any
	if passcode != "" {
		pc = passcode
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, host_id, passcode, status, queue)
		VALUES (?, ?, ?, ?, 'idle', '[]')
	`, id, name, hostID, pc); err != nil {
		return Room{}, fmt.Errorf("insert room: %w", err)
	}
	return s.GetRoom(ctx, id)
}

func (s *Store) GetRoom(ctx context.Context, id string) (Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomCols+` FROM rooms WHERE id = ?`, id)
	r, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrNotFound
	}
	if err != nil {
		return Room{}, fmt.Errorf("get room: %w", err)
	}
	return r, nil
}

func (s *Store) ListRooms(ctx context.Context, limit int) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+roomCols+` FROM rooms ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRoom(ctx context.Context, id string, up RoomUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if up.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *up.Name)
	}
	if up.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *up.Status)
	}
	if up.Queue != nil {
		sets = append(sets, "queue = ?")
		args = append(args, string(up.Queue))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE rooms SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) JoinRoom(ctx context.Context, roomID, userID, username string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_members (room_id, user_id, username)
		VALUES (?, ?, ?)
		ON CONFLICT(room_id, user_id) DO UPDATE SET username = excluded.username
	`, roomID, userID, username)
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	return nil
}

func (s *Store) LeaveRoom(ctx context.Context, roomID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM room_members WHERE room_id = ? AND user_id = ?
	`, roomID, userID)
	if err != nil {
		return fmt.Errorf("leave room: %w", err)
	}
	return nil
}

func (s *Store) ListMembers(ctx context.Context, roomID string) ([]RoomMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id, user_id, username FROM room_members WHERE room_id = ?
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []RoomMember
	for rows.Next() {
		var m RoomMember
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.Username); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
