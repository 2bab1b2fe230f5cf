package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cristianoliveira/intray-live/internal/version"
	"github.com/gorilla/websocket"
)

// Conn is one open live channel connection.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens live channel connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with gorilla/websocket. The cookie jar is shared
// with the HTTP API client so the server authenticates the socket with
// the same session.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
	Jar              http.CookieJar
	// Origin is sent on the handshake; servers validating allowed hosts
	// reject sockets without one.
	Origin string
}

// Dial opens a websocket connection to url.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
		Jar:              d.Jar,
	}
	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())
	if d.Origin != "" {
		header.Set("Origin", d.Origin)
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, nil
}
