// Package client is the HTTP client used by the roomd CLI subcommands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/roomdhq/roomd/internal/api"
)

// Client talks to a roomd server.
type Client struct {
	BaseURL string
	Token   string

	httpClient *http.Client
}

// NewClient builds a Client for the given base URL. token may be empty
// for the bootstrap call.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		httpClient: http.DefaultClient,
	}
}

// envelope mirrors api.Envelope with the payload left raw so each call
// can decode its own projection.
type envelope struct {
	Error     bool            `json:"error"`
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("x-session-token", c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(raw))
	}
	if env.Error {
		return nil, fmt.Errorf("%s", env.Message)
	}
	return &env, nil
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/v1/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status %d", resp.StatusCode)
	}
	return nil
}

// CreateSession requests a fresh session token.
func (c *Client) CreateSession(ctx context.Context) (*api.SessionInfo, error) {
	env, err := c.do(ctx, "GET", "/api/v1/session", nil)
	if err != nil {
		return nil, err
	}
	var info api.SessionInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateRoom provisions a room.
func (c *Client) CreateRoom(ctx context.Context, req api.CreateRoomRequest) (*api.RoomInfo, error) {
	env, err := c.do(ctx, "PUT", "/api/v1/room", req)
	if err != nil {
		return nil, err
	}
	var info api.RoomInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteRoom revokes a room by id.
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "DELETE", "/api/v1/room", api.DeleteRoomRequest{ID: id})
	return err
}
