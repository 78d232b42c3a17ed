// Package api defines the JSON wire types of the management API.
package api

// Envelope is the uniform response wrapper. Rejections set Error with a
// machine code and human-readable message; successes carry Data.
type Envelope struct {
	Error     bool   `json:"error"`
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Envelope {
	return Envelope{Data: data}
}

// OKMessage builds a success envelope carrying only a message.
func OKMessage(msg string) Envelope {
	return Envelope{Message: msg}
}

// Reject builds a rejection envelope.
func Reject(code int, msg string) Envelope {
	return Envelope{Error: true, ErrorCode: code, Message: msg}
}

// CreateRoomRequest is the body of PUT /api/v1/room. Field bounds are
// enforced before the registry runs.
type CreateRoomRequest struct {
	TypeID              int64             `json:"type_id" validate:"gte=0"`
	Content             string            `json:"content"`
	Name                string            `json:"name,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
	RequireParameters   map[string]string `json:"require_parameters,omitempty"`
	OnInvalidStatusCode int               `json:"on_invalid_status_code,omitempty" validate:"gte=100,lte=599"`
	WaitMicroseconds    int64             `json:"wait_microseconds,omitempty" validate:"gte=0,lte=4000000"`
}

// DeleteRoomRequest is the body of DELETE /api/v1/room.
type DeleteRoomRequest struct {
	ID int64 `json:"id" validate:"gte=1"`
}

// ContentTypeInfo is the display projection of a content type.
type ContentTypeInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RoomInfo is the projection of a created room returned to its owner.
type RoomInfo struct {
	URL                 string            `json:"url"`
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	Content             string            `json:"content"`
	Headers             map[string]string `json:"headers"`
	ContentType         ContentTypeInfo   `json:"content_type"`
	RequireParameters   map[string]string `json:"require_parameters"`
	OnInvalidStatusCode int               `json:"on_invalid_status_code"`
	WaitMicroseconds    int64             `json:"wait_microseconds"`
	CreatedAt           string            `json:"created_at"`
	DeletedAt           string            `json:"deleted_at"`
	DeletedAtUnix       int64             `json:"deleted_at_unix"`
}

// SessionInfo is the projection returned by GET /api/v1/session. The
// deleted_at timestamp is advisory: it reports when the session is due
// to expire but expiry is not enforced on read.
type SessionInfo struct {
	Token     string `json:"token"`
	UserAgent string `json:"user_agent"`
	DeletedAt string `json:"deleted_at"`
}
