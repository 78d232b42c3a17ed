package db

import (
	"context"
	"database/sql"

	"github.com/roomdhq/roomd/internal/models"
)

// InsertSession persists a session token and returns its assigned id.
func InsertSession(ctx context.Context, q Querier, token, userAgent string, createdAt int64) (int64, error) {
	result, err := q.ExecContext(ctx,
		"INSERT INTO sessions (token, user_agent, created_at) VALUES (?, ?, ?)",
		token, userAgent, createdAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetValidSessionByToken resolves a bearer token to a session. Validity
// is deleted_at IS NULL only: advisory expiry handed out at creation is
// deliberately not enforced on read. Returns nil for unknown or
// invalidated tokens.
func GetValidSessionByToken(ctx context.Context, q Querier, token string) (*models.Session, error) {
	row := q.QueryRowContext(ctx,
		"SELECT id, token, user_agent, created_at, deleted_at FROM sessions WHERE token = ? AND deleted_at IS NULL",
		token,
	)
	var s models.Session
	err := row.Scan(&s.ID, &s.Token, &s.UserAgent, &s.CreatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
