// Package realtime delivers per-user notifications over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// RegisterClient adds the client. After the hub stopped the client's Send
// channel is closed right away.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Connected returns how many sockets the user currently has open.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

// SendToUser marshals data and pushes it to every socket of the user.
func (h *Hub) SendToUser(userID uuid.UUID, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal message")
		return
	}
	h.SendBytes(userID, payload)
}

func (h *Hub) SendBytes(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			// kalau penuh, skip (jangan block)
			h.log.Warn().Str("client_id", client.ID).Msg("send buffer full, dropping message")
		}
	}
}

// Run serves register/unregister until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Debug().Str("client_id", client.ID).Str("user_id", client.UserID.String()).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				h.log.Debug().Str("client_id", client.ID).Msg("client unregistered")
			}
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}
