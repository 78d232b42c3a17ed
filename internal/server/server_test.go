package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/roomdhq/roomd/internal/api"
	"github.com/roomdhq/roomd/internal/db"
	"github.com/roomdhq/roomd/internal/identity"
	"github.com/roomdhq/roomd/internal/registry"
	"github.com/roomdhq/roomd/internal/synth"
	"go.uber.org/zap"
)

type envelope struct {
	Error     bool            `json:"error"`
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	logger := zap.NewNop()
	srv := New(
		&identity.Gate{DB: d, Logger: logger, SessionTTL: time.Hour},
		&registry.Registry{DB: d, Logger: logger, RoomTTL: time.Hour},
		&synth.Synthesizer{DB: d, Logger: logger},
		logger,
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("x-session-token", token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doRequest(t, ts, "GET", "/api/v1/session", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	var info api.SessionInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode session info: %v", err)
	}
	if info.Token == "" {
		t.Fatal("empty session token")
	}
	return info.Token
}

func createRoom(t *testing.T, ts *httptest.Server, token string, req api.CreateRoomRequest) api.RoomInfo {
	t.Helper()
	resp := doRequest(t, ts, "PUT", "/api/v1/room", token, req)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("create room: status %d body %s", resp.StatusCode, body)
	}
	env := decodeEnvelope(t, resp)
	var info api.RoomInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode room info: %v", err)
	}
	return info
}
