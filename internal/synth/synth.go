// Package synth resolves public lookup keys to live rooms and shapes
// the replayed response.
package synth

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/roomdhq/roomd/internal/db"
	"github.com/roomdhq/roomd/internal/models"
	"go.uber.org/zap"
)

// Synthesizer builds outbound responses for room hits.
type Synthesizer struct {
	DB     *sql.DB
	Logger *zap.Logger
}

// Header is one synthesized response header. Order matters: later
// entries win on case-insensitive collision, and the configured key
// casing is preserved on the wire.
type Header struct {
	Key   string
	Value string
}

// Response is a fully shaped room response ready for the HTTP layer.
type Response struct {
	Status  int
	Body    string
	Headers []Header
}

// Resolve finds the live room addressed by key, joined to its content
// type. Unknown keys and expired or deleted rooms are indistinguishable:
// both return (nil, nil, nil).
func (s *Synthesizer) Resolve(ctx context.Context, key string) (*models.Room, *models.ContentType, error) {
	room, ct, err := db.GetLiveRoomByKey(ctx, s.DB, key, time.Now().Unix())
	if err != nil {
		return nil, nil, fmt.Errorf("resolve room: %w", err)
	}
	return room, ct, nil
}

// ValidateParams checks the room's required query parameters against the
// actual query. Every required key must be present with an exactly equal
// value; a missing key fails even when the expected value is empty.
func ValidateParams(room *models.Room, query url.Values) bool {
	for k, want := range room.RequireParameters {
		got, ok := query[k]
		if !ok || len(got) == 0 || got[0] != want {
			return false
		}
	}
	return true
}

// Synthesize shapes the success response: status 200, the stored body,
// the content type's wire string, then the room's header map in sorted
// key order. Sorting keeps the overlay deterministic when configured
// keys collide case-insensitively; the lexicographically last key wins.
func Synthesize(room *models.Room, ct *models.ContentType) Response {
	keys := make([]string, 0, len(room.Headers))
	for k := range room.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]Header, 0, len(keys)+1)
	headers = append(headers, Header{Key: "Content-Type", Value: ct.ContentType})
	for _, k := range keys {
		headers = append(headers, Header{Key: k, Value: room.Headers[k]})
	}
	return Response{
		Status:  200,
		Body:    room.Content,
		Headers: headers,
	}
}

// Fallback shapes the failed-parameter-validation response: the room's
// configured fallback status with an empty body and none of the room's
// headers.
func Fallback(room *models.Room) Response {
	return Response{Status: room.OnInvalidStatusCode}
}

// ApplyWait enforces the room's latency floor. It sleeps only the
// remainder of wait past elapsed, so total time from resolution start is
// at least the configured wait but never padded beyond it. Returns early
// without error if the context is cancelled; no mutation is in flight
// during the wait.
func ApplyWait(ctx context.Context, waitMicros int64, elapsed time.Duration) {
	if waitMicros <= 0 {
		return
	}
	remainder := time.Duration(waitMicros)*time.Microsecond - elapsed
	if remainder <= 0 {
		return
	}

	timer := time.NewTimer(remainder)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
