// internal/client/client.go
//
// Minimal JSON client for the Kategorie API, used by the terminal `play`
// command. Non-2xx responses are returned as *APIError carrying the
// server's {"error": "..."} message.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robalobadob/kategorie/internal/game"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Client talks to one Kategorie server.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for baseURL (e.g. http://localhost:5175).
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Created is the create-game response.
type Created struct {
	Success  bool   `json:"success"`
	GameID   string `json:"gameId"`
	URL      string `json:"url"`
	ShareURL string `json:"shareUrl"`
	Invite   string `json:"invite,omitempty"`
}

// Preview is the invite preview response.
type Preview struct {
	GameID         string   `json:"gameId"`
	Host           string   `json:"host"`
	RequiredLetter string   `json:"requiredLetter"`
	Categories     []string `json:"categories"`
	TimeLimit      int      `json:"timeLimit,omitempty"`
	Completed      bool     `json:"completed"`
}

// CreateGame submits player1; id may be empty to let the server pick one.
func (c *Client) CreateGame(ctx context.Context, id string, p game.PlayerData) (*Created, error) {
	var out Created
	body := map[string]any{"id": id, "player1": p}
	if err := c.do(ctx, http.MethodPost, "/api/create-game", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGame fetches the full record.
func (c *Client) GetGame(ctx context.Context, id string) (*game.Record, error) {
	var out game.Record
	if err := c.do(ctx, http.MethodGet, "/api/get-game/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinGame submits player2 and returns the scored record.
func (c *Client) JoinGame(ctx context.Context, id string, p game.PlayerData) (*game.Record, error) {
	var out game.Record
	body := map[string]any{"gameId": id, "player2": p}
	if err := c.do(ctx, http.MethodPost, "/api/join-game", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Config returns the rules the server creates games with.
func (c *Client) Config(ctx context.Context) (*game.Config, error) {
	var out game.Config
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invite resolves an invite token to its game preview.
func (c *Client) Invite(ctx context.Context, token string) (*Preview, error) {
	var out Preview
	if err := c.do(ctx, http.MethodGet, "/api/invite/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
