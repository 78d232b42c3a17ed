// Package models defines the database entity types.
package models

// Room represents a provisioned mock endpoint record in the database.
type Room struct {
	ID                  int64
	Name                string
	URIKey              string
	SessionID           int64
	ContentTypeID       int64
	Content             string
	Headers             map[string]string
	RequireParameters   map[string]string
	OnInvalidStatusCode int
	WaitMicroseconds    int64
	CreatedAt           int64
	DeletedAt           *int64
}

// ContentType represents a permitted content category. The table is
// seeded by migration and read-only at runtime.
type ContentType struct {
	ID          int64
	TypeName    string
	ValidateAs  string
	ContentType string
	Description string
	CreatedAt   int64
	DeletedAt   *int64
}

// DisallowedHeader is a denylisted header name, stored case-folded.
type DisallowedHeader struct {
	ID         int64
	HeaderName string
}

// Session represents an authentication credential record.
type Session struct {
	ID        int64
	Token     string
	UserAgent string
	CreatedAt int64
	DeletedAt *int64
}
