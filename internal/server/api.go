// Package server implements the HTTP surface: the management API and
// the public room replay endpoint.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/roomdhq/roomd/internal/api"
	"github.com/roomdhq/roomd/internal/identity"
	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/registry"
	"github.com/roomdhq/roomd/internal/synth"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1MB

// Server wires the identity gate, room registry, and response
// synthesizer to their HTTP routes.
type Server struct {
	Gate     *identity.Gate
	Registry *registry.Registry
	Synth    *synth.Synthesizer
	Logger   *zap.Logger

	validate *validator.Validate
}

// New constructs a Server around the given components.
func New(gate *identity.Gate, reg *registry.Registry, syn *synth.Synthesizer, logger *zap.Logger) *Server {
	return &Server{
		Gate:     gate,
		Registry: reg,
		Synth:    syn,
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler returns the full route table wrapped in the identity
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/ping", s.handlePing)
	mux.HandleFunc("PUT /api/v1/room", s.handleCreateRoom)
	mux.HandleFunc("DELETE /api/v1/room", s.handleDeleteRoom)
	mux.HandleFunc("GET /api/v1/session", s.handleCreateSession)
	mux.HandleFunc("/room/{key}", s.handleRoomHit)

	return s.IdentityMiddleware(mux)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	userAgent := r.Header.Get("User-Agent")

	token, expiresAt, err := s.Gate.CreateSession(r.Context(), userAgent)
	if err != nil {
		s.Logger.Error("create session failed", logging.RequestID(st.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, api.Reject(500, "internal error"))
		return
	}

	writeJSON(w, http.StatusOK, api.OK(api.SessionInfo{
		Token:     token,
		UserAgent: userAgent,
		DeletedAt: expiresAt.UTC().Format(time.RFC3339),
	}))
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	if st.Session == nil {
		s.Logger.Warn("create room unauthorized", logging.RequestID(st.ID))
		writeJSON(w, http.StatusForbidden, api.Reject(403, "Unauthorized"))
		return
	}

	var req api.CreateRoomRequest
	req.OnInvalidStatusCode = 200
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, api.Reject(422, validationMessage(err)))
		return
	}

	room, ct, err := s.Registry.CreateRoom(r.Context(), registry.CreateParams{
		SessionID:           st.Session.ID,
		ContentTypeID:       req.TypeID,
		Content:             req.Content,
		Name:                req.Name,
		Headers:             req.Headers,
		RequireParameters:   req.RequireParameters,
		OnInvalidStatusCode: req.OnInvalidStatusCode,
		WaitMicroseconds:    req.WaitMicroseconds,
	})
	switch {
	case errors.Is(err, registry.ErrUnknownContentType):
		writeJSON(w, http.StatusBadRequest, api.Reject(400, "Content Type unknown"))
		return
	case errors.Is(err, registry.ErrForbiddenHeader):
		writeJSON(w, http.StatusBadRequest, api.Reject(400, "You have forbidden headers in your request"))
		return
	case errors.Is(err, registry.ErrInvalidContent):
		writeJSON(w, http.StatusBadRequest, api.Reject(400, "Content does not match the content type"))
		return
	case err != nil:
		s.Logger.Error("create room failed", logging.RequestID(st.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, api.Reject(500, "internal error"))
		return
	}

	deletedAt := time.Unix(*room.DeletedAt, 0).UTC()
	writeJSON(w, http.StatusOK, api.OK(api.RoomInfo{
		URL:     "/room/" + room.URIKey,
		ID:      room.ID,
		Name:    room.Name,
		Content: room.Content,
		Headers: room.Headers,
		ContentType: api.ContentTypeInfo{
			ID:          ct.ID,
			Name:        ct.TypeName,
			Description: ct.Description,
		},
		RequireParameters:   room.RequireParameters,
		OnInvalidStatusCode: room.OnInvalidStatusCode,
		WaitMicroseconds:    room.WaitMicroseconds,
		CreatedAt:           time.Unix(room.CreatedAt, 0).UTC().Format(time.RFC3339),
		DeletedAt:           deletedAt.Format(time.RFC3339),
		DeletedAtUnix:       deletedAt.Unix(),
	}))
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	if st.Session == nil {
		s.Logger.Warn("delete room unauthorized", logging.RequestID(st.ID))
		writeJSON(w, http.StatusForbidden, api.Reject(403, "Unauthorized"))
		return
	}

	var req api.DeleteRoomRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, api.Reject(422, validationMessage(err)))
		return
	}

	err := s.Registry.DeleteRoom(r.Context(), st.Session.ID, req.ID)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		writeJSON(w, http.StatusNotFound, api.Reject(404, "Room not found"))
		return
	case err != nil:
		s.Logger.Error("delete room failed", logging.RequestID(st.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, api.Reject(500, "internal error"))
		return
	}

	writeJSON(w, http.StatusOK, api.OKMessage("Room has been successfully removed"))
}

// decodeBody decodes a JSON request body into dst, rejecting the request
// itself on malformed input. Returns false when a response was written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, api.Reject(413, "request body too large"))
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, api.Reject(422, "invalid JSON body"))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return "field " + e.Field() + " failed validation rule " + e.Tag()
	}
	return "invalid request"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
