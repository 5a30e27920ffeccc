package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Events a client may send upward. Rooms are keyed by project id.
const (
	eventOpenProject  = "open-project"
	eventCloseProject = "close-project"
)

type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{} // guarded by hub.mu
}

type inboundMessage struct {
	Event   string `json:"event"`
	Project string `json:"project"`
}

// ServeConn wires a freshly upgraded connection into the hub and
// blocks until the connection drops. The first message down the wire
// is a hello carrying the connection's id, which the client echoes in
// the X-Client-ID header of mutating requests so its own events are
// not reflected back at it.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	client := &Client{
		id:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
	}

	hello, _ := json.Marshal(envelope{
		Event:   "connected",
		Payload: map[string]string{"id": client.id},
	})
	client.send <- hello

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().
					Err(err).
					Str("client_id", c.id).
					Msg("connection closed unexpectedly")
			}
			return
		}

		var msg inboundMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			c.hub.logger.Warn().
				Str("client_id", c.id).
				Msg("discarded malformed message")
			continue
		}

		switch msg.Event {
		case eventOpenProject:
			if msg.Project != "" {
				c.hub.Join(c, msg.Project)
			}
		case eventCloseProject:
			if msg.Project != "" {
				c.hub.Leave(c, msg.Project)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
