package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roomdhq/roomd/internal/models"
)

// liveRoom is the liveness predicate shared by every room read and the
// conditional delete: absent deleted_at means immortal, a future
// deleted_at means not yet expired.
const liveRoom = "(deleted_at IS NULL OR deleted_at > ?)"

// InsertRoom persists a room and returns its assigned id.
func InsertRoom(ctx context.Context, q Querier, r *models.Room) (int64, error) {
	headers, err := json.Marshal(r.Headers)
	if err != nil {
		return 0, fmt.Errorf("marshal headers: %w", err)
	}
	params, err := json.Marshal(r.RequireParameters)
	if err != nil {
		return 0, fmt.Errorf("marshal require_parameters: %w", err)
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO rooms (name, uri_key, session_id, content_type_id, content, headers,
			require_parameters, on_invalid_status_code, wait_microseconds, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.URIKey, r.SessionID, r.ContentTypeID, r.Content, string(headers),
		string(params), r.OnInvalidStatusCode, r.WaitMicroseconds, r.CreatedAt, r.DeletedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLiveRoomByKey resolves a lookup key to a live room joined with its
// content type. Returns nil for unknown, expired, and deleted keys alike.
func GetLiveRoomByKey(ctx context.Context, q Querier, key string, now int64) (*models.Room, *models.ContentType, error) {
	row := q.QueryRowContext(ctx,
		`SELECT r.id, r.name, r.uri_key, r.session_id, r.content_type_id, r.content,
			r.headers, r.require_parameters, r.on_invalid_status_code, r.wait_microseconds,
			r.created_at, r.deleted_at,
			ct.id, ct.type_name, ct.validate_as, ct.content_type, ct.description
		FROM rooms r
		JOIN content_types ct ON ct.id = r.content_type_id
		WHERE r.uri_key = ? AND (r.deleted_at IS NULL OR r.deleted_at > ?)
		LIMIT 1`,
		key, now,
	)

	var r models.Room
	var ct models.ContentType
	var headers, params string
	err := row.Scan(&r.ID, &r.Name, &r.URIKey, &r.SessionID, &r.ContentTypeID, &r.Content,
		&headers, &params, &r.OnInvalidStatusCode, &r.WaitMicroseconds,
		&r.CreatedAt, &r.DeletedAt,
		&ct.ID, &ct.TypeName, &ct.ValidateAs, &ct.ContentType, &ct.Description)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err := json.Unmarshal([]byte(headers), &r.Headers); err != nil {
		return nil, nil, fmt.Errorf("unmarshal headers: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &r.RequireParameters); err != nil {
		return nil, nil, fmt.Errorf("unmarshal require_parameters: %w", err)
	}
	return &r, &ct, nil
}

// SoftDeleteRoom marks a room deleted as of now, but only if it is owned
// by sessionID and still live. A single conditional update keeps
// concurrent deletions and expiration races honest; the caller learns
// only whether a row was affected.
func SoftDeleteRoom(ctx context.Context, q Querier, roomID, sessionID, now int64) (bool, error) {
	result, err := q.ExecContext(ctx,
		"UPDATE rooms SET deleted_at = ? WHERE id = ? AND session_id = ? AND "+liveRoom,
		now, roomID, sessionID, now,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountRoomsBySession counts every room the session has ever created,
// deleted and expired ones included. Used for default room numbering.
func CountRoomsBySession(ctx context.Context, q Querier, sessionID int64) (int64, error) {
	var count int64
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms WHERE session_id = ?", sessionID,
	).Scan(&count)
	return count, err
}
