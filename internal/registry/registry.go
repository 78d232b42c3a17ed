// Package registry provisions and revokes rooms, enforcing content and
// header policy at creation time.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roomdhq/roomd/internal/contentcheck"
	"github.com/roomdhq/roomd/internal/db"
	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/models"
	"github.com/roomdhq/roomd/internal/token"
	"go.uber.org/zap"
)

// Policy rejections. The HTTP layer maps these onto structured error
// envelopes; anything else is a backend failure.
var (
	ErrUnknownContentType = errors.New("content type unknown")
	ErrForbiddenHeader    = errors.New("forbidden header")
	ErrInvalidContent     = errors.New("content does not match content type")
	ErrNotFound           = errors.New("room not found")
)

// Registry creates and soft-deletes rooms. Callers are assumed to be
// authorized already; the Registry enforces ownership, not session
// existence.
type Registry struct {
	DB      *sql.DB
	Logger  *zap.Logger
	RoomTTL time.Duration
}

// CreateParams carries the validated fields of a provisioning request.
type CreateParams struct {
	SessionID           int64
	ContentTypeID       int64
	Content             string
	Name                string
	Headers             map[string]string
	RequireParameters   map[string]string
	OnInvalidStatusCode int
	WaitMicroseconds    int64
}

// CreateRoom provisions a room inside a single transaction: resolve the
// content type, screen the header map against the denylist, validate the
// body grammar, default the name, generate a fresh lookup key, and
// persist with an absolute expiration of now + RoomTTL.
func (r *Registry) CreateRoom(ctx context.Context, p CreateParams) (*models.Room, *models.ContentType, error) {
	now := time.Now()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ct, err := db.GetLiveContentType(ctx, tx, p.ContentTypeID, now.Unix())
	if err != nil {
		return nil, nil, fmt.Errorf("lookup content type: %w", err)
	}
	if ct == nil {
		return nil, nil, ErrUnknownContentType
	}

	if len(p.Headers) > 0 {
		folded := make([]string, 0, len(p.Headers))
		for k := range p.Headers {
			folded = append(folded, strings.ToLower(k))
		}
		disallowed, err := db.AnyHeaderDisallowed(ctx, tx, folded)
		if err != nil {
			return nil, nil, fmt.Errorf("check disallowed headers: %w", err)
		}
		if disallowed {
			return nil, nil, ErrForbiddenHeader
		}
	}

	if !contentcheck.Valid(ct.ValidateAs, p.Content) {
		return nil, nil, ErrInvalidContent
	}

	name := p.Name
	if name == "" {
		count, err := db.CountRoomsBySession(ctx, tx, p.SessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("count session rooms: %w", err)
		}
		name = fmt.Sprintf("Room #%d", count+1)
	}

	key, err := token.Generate(fmt.Sprintf("%d/%d", p.SessionID, now.UnixNano()))
	if err != nil {
		return nil, nil, fmt.Errorf("generate room key: %w", err)
	}

	deletedAt := now.Add(r.RoomTTL).Unix()
	room := &models.Room{
		Name:                name,
		URIKey:              key,
		SessionID:           p.SessionID,
		ContentTypeID:       ct.ID,
		Content:             p.Content,
		Headers:             p.Headers,
		RequireParameters:   p.RequireParameters,
		OnInvalidStatusCode: p.OnInvalidStatusCode,
		WaitMicroseconds:    p.WaitMicroseconds,
		CreatedAt:           now.Unix(),
		DeletedAt:           &deletedAt,
	}
	if room.Headers == nil {
		room.Headers = map[string]string{}
	}
	if room.RequireParameters == nil {
		room.RequireParameters = map[string]string{}
	}

	room.ID, err = db.InsertRoom(ctx, tx, room)
	if err != nil {
		return nil, nil, fmt.Errorf("insert room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	r.Logger.Info("room created",
		logging.RoomID(room.ID),
		logging.SessionID(p.SessionID),
		logging.ContentTypeID(ct.ID))
	return room, ct, nil
}

// DeleteRoom revokes a room owned by sessionID. The soft delete is a
// single conditional write; a room that is missing, not owned, or no
// longer live yields ErrNotFound, never a second success.
func (r *Registry) DeleteRoom(ctx context.Context, sessionID, roomID int64) error {
	deleted, err := db.SoftDeleteRoom(ctx, r.DB, roomID, sessionID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	r.Logger.Info("room deleted", logging.RoomID(roomID), logging.SessionID(sessionID))
	return nil
}
