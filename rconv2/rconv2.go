// Package rconv2 is a thin binding to the Hell Let Loose RCON v2
// protocol: an 8-byte little-endian header (message ID, body length)
// followed by an XOR-obfuscated JSON body. ServerConnect returns the
// XOR key, Login returns the auth token, and every later command
// carries that token.
//
// Connections are cheap and short-lived; callers open one per call
// sequence and close it when done.
package rconv2

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const protocolVersion = 2

var (
	// ErrConnect marks transport failures: dial, read, or write.
	ErrConnect = errors.New("rconv2: connection failed")
	// ErrProtocol marks malformed or out-of-sequence responses.
	ErrProtocol = errors.New("rconv2: protocol error")
)

// CommandError is returned when the server understood a command but
// refused it with a non-200 status.
type CommandError struct {
	Command       string
	StatusCode    int
	StatusMessage string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("rconv2: %s failed with status %d: %s", e.Command, e.StatusCode, e.StatusMessage)
}

// Client holds the endpoint parameters for one server. It keeps no
// connection state; Connect opens a fresh authenticated session.
type Client struct {
	addr        string
	password    string
	dialTimeout time.Duration
	ioTimeout   time.Duration
}

// NewClient builds a client for the given RCON endpoint.
func NewClient(addr, password string, dialTimeout, ioTimeout time.Duration) *Client {
	return &Client{
		addr:        addr,
		password:    password,
		dialTimeout: dialTimeout,
		ioTimeout:   ioTimeout,
	}
}

// Conn is one authenticated RCON session.
type Conn struct {
	conn      net.Conn
	ioTimeout time.Duration
	xorKey    []byte
	authToken string
	messageID uint32
}

// Connect dials the endpoint and performs the ServerConnect/Login
// handshake. The returned connection must be closed by the caller.
func (c *Client) Connect(ctx context.Context) (*Conn, error) {
	dialer := net.Dialer{Timeout: c.dialTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrConnect, c.addr, err)
	}

	conn := &Conn{conn: netConn, ioTimeout: c.ioTimeout}
	if err := conn.handshake(ctx, c.password); err != nil {
		netConn.Close()
		return nil, err
	}
	return conn, nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) handshake(ctx context.Context, password string) error {
	// ServerConnect is the only command sent in the clear; its content
	// is the base64-encoded XOR key for everything that follows.
	resp, err := c.exec(ctx, "ServerConnect", "", false, false)
	if err != nil {
		return err
	}
	encoded, ok := resp.content.(string)
	if !ok || encoded == "" {
		return fmt.Errorf("%w: ServerConnect did not return an XOR key", ErrProtocol)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: decoding XOR key: %v", ErrProtocol, err)
	}
	if len(key) == 0 {
		return fmt.Errorf("%w: empty XOR key", ErrProtocol)
	}
	c.xorKey = key

	resp, err = c.exec(ctx, "Login", password, true, false)
	if err != nil {
		return err
	}
	token, ok := resp.content.(string)
	if !ok || token == "" {
		return fmt.Errorf("%w: Login did not return an auth token", ErrProtocol)
	}
	c.authToken = strings.TrimSpace(token)
	return nil
}

// ServerInformation runs the ServerInformation command for the given
// info name (e.g. "session") and returns the decoded object.
func (c *Conn) ServerInformation(ctx context.Context, name string) (map[string]any, error) {
	resp, err := c.exec(ctx, "ServerInformation", map[string]string{"Name": name, "Value": ""}, true, true)
	if err != nil {
		return nil, err
	}
	if obj, ok := resp.content.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{}, nil
}

// ChangeMap asks the server to switch to the given layer.
func (c *Conn) ChangeMap(ctx context.Context, layerID string) error {
	_, err := c.exec(ctx, "ChangeMap", layerID, true, true)
	return err
}

type response struct {
	statusCode    int
	statusMessage string
	content       any
}

type requestBody struct {
	AuthToken   string `json:"AuthToken"`
	Version     int    `json:"Version"`
	Name        string `json:"Name"`
	ContentBody any    `json:"ContentBody"`
}

type responseBody struct {
	StatusCode    int             `json:"StatusCode"`
	StatusMessage string          `json:"StatusMessage"`
	Name          string          `json:"Name"`
	ContentBody   json.RawMessage `json:"ContentBody"`
}

func (c *Conn) exec(ctx context.Context, name string, content any, encrypt, includeAuth bool) (*response, error) {
	auth := ""
	if includeAuth {
		auth = c.authToken
	}
	body, err := json.Marshal(requestBody{
		AuthToken:   auth,
		Version:     protocolVersion,
		Name:        name,
		ContentBody: content,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s request: %v", ErrProtocol, name, err)
	}
	if encrypt {
		body = c.xor(body)
	}

	c.setDeadline(ctx)
	id, err := c.write(body)
	if err != nil {
		return nil, err
	}
	resp, respID, err := c.read(encrypt)
	if err != nil {
		return nil, err
	}
	if respID != id {
		// The server echoes the request ID; a mismatch means the
		// stream is desynchronized and the session is unusable.
		return nil, fmt.Errorf("%w: response ID %d does not match request ID %d for %s", ErrProtocol, respID, id, name)
	}
	if resp.statusCode != 200 {
		return nil, &CommandError{Command: name, StatusCode: resp.statusCode, StatusMessage: resp.statusMessage}
	}
	return resp, nil
}

func (c *Conn) setDeadline(ctx context.Context) {
	deadline := time.Now().Add(c.ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetDeadline(deadline)
}

func (c *Conn) write(body []byte) (uint32, error) {
	c.messageID++
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], c.messageID)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(body)))
	if _, err := c.conn.Write(append(header, body...)); err != nil {
		return 0, fmt.Errorf("%w: writing request: %v", ErrConnect, err)
	}
	return c.messageID, nil
}

func (c *Conn) read(decrypt bool) (*response, uint32, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return nil, 0, fmt.Errorf("%w: reading response header: %v", ErrConnect, err)
	}
	id := binary.LittleEndian.Uint32(header[0:4])
	length := binary.LittleEndian.Uint32(header[4:8])

	body := make([]byte, length)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, 0, fmt.Errorf("%w: reading response body: %v", ErrConnect, err)
	}
	if decrypt {
		body = c.xor(body)
	}

	var decoded responseBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, 0, fmt.Errorf("%w: decoding response JSON: %v", ErrProtocol, err)
	}

	return &response{
		statusCode:    decoded.StatusCode,
		statusMessage: decoded.StatusMessage,
		content:       parseContentBody(decoded.ContentBody),
	}, id, nil
}

// parseContentBody decodes the ContentBody field, which may be a bare
// string, a JSON document nested inside a string, or an object.
func parseContentBody(raw json.RawMessage) any {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), "\x00", "")
		if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
			var nested any
			if err := json.Unmarshal([]byte(s), &nested); err == nil {
				return nested
			}
		}
		return s
	}
	var obj any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	return string(raw)
}

func (c *Conn) xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ c.xorKey[i%len(c.xorKey)]
	}
	return out
}
