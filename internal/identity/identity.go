// Package identity implements the gate every inbound request passes
// through: correlation id assignment and session resolution/issuance.
package identity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roomdhq/roomd/internal/db"
	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/models"
	"github.com/roomdhq/roomd/internal/token"
	"go.uber.org/zap"
)

// Gate stamps requests with correlation ids and resolves or issues
// session tokens. It holds no state of its own; ordering comes from the
// store's atomic sequence.
type Gate struct {
	DB         *sql.DB
	Logger     *zap.Logger
	SessionTTL time.Duration
}

// NextRequestID advances the shared request counter and formats a
// correlation id of the form "r<n> > <client-ip>". Ids are strictly
// monotonic across concurrent requests.
func (g *Gate) NextRequestID(ctx context.Context, clientIP string) (string, error) {
	seq, err := db.NextRequestSeq(ctx, g.DB)
	if err != nil {
		return "", fmt.Errorf("advance request seq: %w", err)
	}
	return fmt.Sprintf("r%d > %s", seq, clientIP), nil
}

// ResolveSession looks up a bearer token. A missing, unknown, or
// invalidated token yields (nil, nil): absence of auth is a normal
// outcome, not an error.
func (g *Gate) ResolveSession(ctx context.Context, tok string) (*models.Session, error) {
	if tok == "" {
		return nil, nil
	}
	s, err := db.GetValidSessionByToken(ctx, g.DB, tok)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	return s, nil
}

// CreateSession issues a fresh session token salted with the caller's
// user-agent and returns it together with an advisory expiry of
// now + SessionTTL. The expiry is metadata for the caller only; validity
// is gated by explicit invalidation, not elapsed time.
func (g *Gate) CreateSession(ctx context.Context, userAgent string) (string, time.Time, error) {
	tok, err := token.Generate(userAgent)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now()
	id, err := db.InsertSession(ctx, g.DB, tok, userAgent, now.Unix())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert session: %w", err)
	}

	g.Logger.Debug("session created", logging.SessionID(id), logging.UserAgent(userAgent))
	return tok, now.Add(g.SessionTTL), nil
}
