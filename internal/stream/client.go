package stream

import (
	"time"

	"codeberg.org/weconnect/server/internal/logger"
	"github.com/gorilla/websocket"
)

// creates a new websocket client watching one owner's delta stream
func NewClient(id, ownerID, userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:      id,
		OwnerID: ownerID,
		UserID:  userID,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, clientSendBuffer),
	}
}

// closes the underlying connection once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// reads from the websocket connection until it drops.
// Clients never push data upstream; the pump exists to service control
// frames and to detect disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"owner_id", c.OwnerID,
					"error", err,
				)
			}

			break
		}
	}
}

// writes hub deltas to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
