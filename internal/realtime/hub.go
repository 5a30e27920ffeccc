// Package realtime fans mutation events out to every live connection
// subscribed to a project's room. The hub performs no authorization
// of its own: it trusts that the emitting side already passed the
// HTTP-layer check. Delivery is fire-and-forget, with no
// acknowledgment and no replay for clients that join late.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EventTaskCreated      = "task-created"
	EventTaskDeleted      = "task-deleted"
	EventTaskUpdated      = "task-updated"
	EventTaskStateChanged = "task-state-changed"
)

type envelope struct {
	Event   string `json:"event"`
	Project string `json:"project,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type Hub struct {
	logger zerolog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*Client]struct{}),
	}
}

// Join subscribes the connection to the project's room. Joining the
// same room twice is a no-op.
func (h *Hub) Join(c *Client, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[projectID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[projectID] = room
	}
	room[c] = struct{}{}
	c.rooms[projectID] = struct{}{}

	h.logger.Debug().
		Str("client_id", c.id).
		Str("project_id", projectID).
		Msg("client joined room")
}

func (h *Hub) Leave(c *Client, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, projectID)
}

// Broadcast delivers the event to every connection in the project's
// room except the originator. Connections with a full send buffer
// are skipped; there is no delivery guarantee.
func (h *Hub) Broadcast(originID, projectID, event string, payload any) {
	message, err := json.Marshal(envelope{
		Event:   event,
		Project: projectID,
		Payload: payload,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", event).
			Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[projectID] {
		if c.id == originID {
			continue
		}
		select {
		case c.send <- message:
		default:
			h.logger.Warn().
				Str("client_id", c.id).
				Str("event", event).
				Msg("dropped event for slow client")
		}
	}

	h.logger.Debug().
		Str("project_id", projectID).
		Str("event", event).
		Msg("broadcast event")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for projectID := range c.rooms {
		h.leaveLocked(c, projectID)
	}
	close(c.send)
}

func (h *Hub) leaveLocked(c *Client, projectID string) {
	room, ok := h.rooms[projectID]
	if !ok {
		return
	}
	delete(room, c)
	delete(c.rooms, projectID)
	if len(room) == 0 {
		delete(h.rooms, projectID)
	}
}
