// Package crcon is a thin client for the CRCON HTTP API, the companion
// admin service for Hell Let Loose servers. Requests carry a bearer
// token; responses share a {result, failed, error} envelope.
package crcon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnreachable marks transport failures talking to the API.
	ErrUnreachable = errors.New("crcon: unreachable")
	// ErrUnauthorized marks a rejected bearer token.
	ErrUnauthorized = errors.New("crcon: unauthorized")
	// ErrMalformed marks responses that could not be decoded.
	ErrMalformed = errors.New("crcon: malformed response")
)

// APIError is returned when the API understood a request but refused
// it, either with a non-200 status or a failed envelope.
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crcon: %s failed with status %d: %s", e.Endpoint, e.Status, e.Detail)
}

// Client issues authenticated requests against one CRCON instance.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the given base URL and API token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Failed bool            `json:"failed"`
	Error  string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrUnreachable, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, endpoint)
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: strings.TrimSpace(string(payload))}
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", ErrMalformed, endpoint, err)
	}
	if env.Failed {
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: env.Error}
	}
	return env.Result, nil
}

// GetMaps returns the full layer list.
func (c *Client) GetMaps(ctx context.Context) ([]Layer, error) {
	result, err := c.do(ctx, http.MethodGet, "get_maps", nil)
	if err != nil {
		return nil, err
	}
	var layers []Layer
	if err := json.Unmarshal(result, &layers); err != nil {
		return nil, fmt.Errorf("%w: decoding layer list: %v", ErrMalformed, err)
	}
	return layers, nil
}

// GetGamestate returns the live match state.
func (c *Client) GetGamestate(ctx context.Context) (Gamestate, error) {
	result, err := c.do(ctx, http.MethodGet, "get_gamestate", nil)
	if err != nil {
		return Gamestate{}, err
	}
	var state Gamestate
	if err := json.Unmarshal(result, &state); err != nil {
		return Gamestate{}, fmt.Errorf("%w: decoding gamestate: %v", ErrMalformed, err)
	}
	return state, nil
}

// GetObjectiveRows returns the objective matrix for the current map:
// one row per capture line, each listing the selectable strongpoints.
func (c *Client) GetObjectiveRows(ctx context.Context) ([][]string, error) {
	result, err := c.do(ctx, http.MethodGet, "get_objective_rows", nil)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("%w: decoding objective rows: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty objective matrix", ErrMalformed)
	}
	return rows, nil
}

// SetMap switches the server to the given layer.
func (c *Client) SetMap(ctx context.Context, layerID string) error {
	_, err := c.do(ctx, http.MethodPost, "set_map", setMapRequest{MapID: layerID})
	return err
}

// SetGameLayout fixes the objective layout for the current match.
func (c *Client) SetGameLayout(ctx context.Context, objectives []string, randomConstraints int) error {
	_, err := c.do(ctx, http.MethodPost, "set_game_layout", setGameLayoutRequest{
		Objectives:        objectives,
		RandomConstraints: randomConstraints,
	})
	return err
}
