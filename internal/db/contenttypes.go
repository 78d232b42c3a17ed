package db

import (
	"context"
	"database/sql"

	"github.com/roomdhq/roomd/internal/models"
)

// GetLiveContentType fetches a content type by id, excluding retired
// entries. Returns nil when the id does not resolve.
func GetLiveContentType(ctx context.Context, q Querier, id, now int64) (*models.ContentType, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, type_name, validate_as, content_type, description, created_at, deleted_at
		FROM content_types
		WHERE id = ? AND (deleted_at IS NULL OR deleted_at > ?)`,
		id, now,
	)
	var ct models.ContentType
	err := row.Scan(&ct.ID, &ct.TypeName, &ct.ValidateAs, &ct.ContentType, &ct.Description, &ct.CreatedAt, &ct.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// GetContentTypeByName fetches a content type by its unique name.
func GetContentTypeByName(ctx context.Context, q Querier, name string) (*models.ContentType, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, type_name, validate_as, content_type, description, created_at, deleted_at
		FROM content_types WHERE type_name = ?`,
		name,
	)
	var ct models.ContentType
	err := row.Scan(&ct.ID, &ct.TypeName, &ct.ValidateAs, &ct.ContentType, &ct.Description, &ct.CreatedAt, &ct.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}
