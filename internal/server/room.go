package server

import (
	"net/http"
	"net/textproto"
	"time"

	"github.com/roomdhq/roomd/internal/api"
	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/synth"
	"go.uber.org/zap"
)

// handleRoomHit replays the configured response for a live room. Any
// HTTP method is accepted; the lookup key alone addresses the room.
func (s *Server) handleRoomHit(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	key := r.PathValue("key")

	s.Logger.Debug("room hit", logging.RequestID(st.ID), logging.RoomKey(key), logging.Method(r.Method))

	if st.Session == nil {
		s.Logger.Warn("room hit unauthorized", logging.RequestID(st.ID), logging.RoomKey(key))
		writeJSON(w, http.StatusUnauthorized, api.Reject(401, "Unauthorized"))
		return
	}

	start := time.Now()
	room, ct, err := s.Synth.Resolve(r.Context(), key)
	if err != nil {
		s.Logger.Error("resolve room failed", logging.RequestID(st.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, api.Reject(500, "internal error"))
		return
	}
	if room == nil {
		// Unknown and expired keys are deliberately indistinguishable.
		s.Logger.Debug("room missing or expired", logging.RequestID(st.ID), logging.RoomKey(key))
		writeJSON(w, http.StatusNotFound, api.Reject(404, "Room does not exists or expired"))
		return
	}

	if !synth.ValidateParams(room, r.URL.Query()) {
		resp := synth.Fallback(room)
		w.WriteHeader(resp.Status)
		return
	}

	resp := synth.Synthesize(room, ct)
	synth.ApplyWait(r.Context(), room.WaitMicroseconds, time.Since(start))

	header := w.Header()
	for _, h := range resp.Headers {
		// Last-write-wins on case-insensitive collision; the configured
		// casing is set verbatim.
		canon := textproto.CanonicalMIMEHeaderKey(h.Key)
		for k := range header {
			if textproto.CanonicalMIMEHeaderKey(k) == canon {
				delete(header, k)
			}
		}
		header[h.Key] = []string{h.Value}
	}
	w.WriteHeader(resp.Status)
	w.Write([]byte(resp.Body))
}
