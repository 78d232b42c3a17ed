package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/models"
	"go.uber.org/zap"
)

type contextKey string

const requestStateKey contextKey = "requestState"

// requestState is what the identity middleware attaches to every
// request: the correlation id and the resolved session, if any.
type requestState struct {
	ID      string
	Session *models.Session
}

func stateFrom(r *http.Request) *requestState {
	if st, ok := r.Context().Value(requestStateKey).(*requestState); ok {
		return st
	}
	return &requestState{}
}

// timingWriter injects the diagnostic headers just before the response
// status is committed, so the reported processing time covers everything
// up to the first byte.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (t *timingWriter) WriteHeader(status int) {
	if !t.wroteHeader {
		t.wroteHeader = true
		elapsed := time.Since(t.start).Microseconds()
		t.Header().Set("X-Process-Time-Microseconds", strconv.FormatInt(elapsed, 10))
		t.Header().Set("Real-Server-Time", t.start.Format(time.RFC3339Nano))
	}
	t.ResponseWriter.WriteHeader(status)
}

func (t *timingWriter) Write(b []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}

// IdentityMiddleware assigns the correlation id, resolves the optional
// x-session-token header, and stamps the diagnostic headers on every
// response. Business handlers never run without a correlation id.
func (s *Server) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			clientIP = r.RemoteAddr
		}

		reqID, err := s.Gate.NextRequestID(r.Context(), clientIP)
		if err != nil {
			s.Logger.Error("assign request id failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		st := &requestState{ID: reqID}
		session, err := s.Gate.ResolveSession(r.Context(), r.Header.Get("x-session-token"))
		if err != nil {
			s.Logger.Error("resolve session failed", logging.RequestID(reqID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		st.Session = session

		s.Logger.Debug("request",
			logging.RequestID(reqID),
			logging.RemoteIP(clientIP),
			logging.Method(r.Method),
			logging.Path(r.URL.Path))

		ctx := context.WithValue(r.Context(), requestStateKey, st)
		tw := &timingWriter{ResponseWriter: w, start: start}
		next.ServeHTTP(tw, r.WithContext(ctx))
	})
}
