package tui

import (
	"encoding/json"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/weconnect/server/internal/stream"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

// streams record deltas from the server's websocket endpoint. Subscribe
// satisfies dashboard.DeltaSource, so the TUI can feed a live view the same
// way the server's in-process consumers do.
type WSClient struct {
	endpoint string
	token    string

	mu   sync.Mutex
	conn *websocket.Conn
}

// creates a new websocket client; the JWT comes from WECONNECT_TOKEN
func NewWSClient() *WSClient {
	endpoint := os.Getenv("WECONNECT_WS_ENDPOINT")
	if endpoint == "" {
		endpoint = "ws://localhost:8080/api/v1/ws"
	}

	return &WSClient{
		endpoint: endpoint,
		token:    os.Getenv("WECONNECT_TOKEN"),
	}
}

// dials the server and returns a channel of deltas for the authenticated
// user. The caller subscribes before its initial fetch; deltas arriving in
// the meantime queue in the channel buffer and replay afterwards.
func (c *WSClient) Subscribe(_ string) (<-chan stream.Delta, stream.CancelFunc) {
	ch := make(chan stream.Delta, 64)

	conn, err := c.dial()
	if err != nil {
		// a dead stream is not fatal: the dashboard still renders the
		// initial fetch, it just stops converging
		close(ch)
		return ch, func() {}
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	done := make(chan struct{})

	go c.readPump(conn, ch, done)
	go c.pingPump(conn, done)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			conn.Close() //nolint:errcheck,gosec // best-effort teardown
		})
	}

	return ch, cancel
}

func (c *WSClient) dial() (*websocket.Conn, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck,gosec // websocket setup
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck,gosec // pong handler
		return nil
	})

	return conn, nil
}

func (c *WSClient) readPump(conn *websocket.Conn, ch chan<- stream.Delta, done <-chan struct{}) {
	defer close(ch)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var delta stream.Delta
		if err := json.Unmarshal(payload, &delta); err != nil {
			continue
		}

		select {
		case ch <- delta:
		case <-done:
			return
		}
	}
}

func (c *WSClient) pingPump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec // websocket timing
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
