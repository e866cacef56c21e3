package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is the part of a connection the hub needs
type ClientInterface interface {
	ID() string
	UserID() string
	Send(data []byte) error
	Close() error
}

// Hub fans events out to every open connection of a user.
// It is safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[string]ClientInterface // user ID -> client ID -> client
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[string]ClientInterface)}
}

// Register adds a client under its user
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	set, ok := h.conns[client.UserID()]
	if !ok {
		set = make(map[string]ClientInterface)
		h.conns[client.UserID()] = set
	}
	set[client.ID()] = client
	n := len(set)
	h.mu.Unlock()

	log.Debug().
		Str("user_id", client.UserID()).
		Str("client_id", client.ID()).
		Int("user_connections", n).
		Msg("WebSocket client registered")
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	if !h.remove(client) {
		return
	}
	log.Debug().
		Str("user_id", client.UserID()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

func (h *Hub) remove(client ClientInterface) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.conns[client.UserID()]
	if _, ok := set[client.ID()]; !ok {
		return false
	}
	delete(set, client.ID())
	if len(set) == 0 {
		delete(h.conns, client.UserID())
	}
	return true
}

// Broadcast queues an event on every connection of a user in call order.
// Send never blocks; a client whose queue is full is disconnected.
func (h *Hub) Broadcast(userID string, event Event) {
	targets := h.snapshot(userID)
	if len(targets) == 0 {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("event_type", event.Type).Msg("Failed to serialize event")
		return
	}

	for _, client := range targets {
		h.deliver(client, data)
	}

	log.Debug().
		Str("user_id", userID).
		Str("event_type", event.Type).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

func (h *Hub) deliver(client ClientInterface, data []byte) {
	err := client.Send(data)
	switch {
	case err == nil:
	case errors.Is(err, ErrSlowClient):
		log.Warn().Str("user_id", client.UserID()).Str("client_id", client.ID()).Msg("Dropping slow WebSocket client")
		h.remove(client)
		_ = client.Close()
	default:
		log.Warn().Err(err).Str("user_id", client.UserID()).Str("client_id", client.ID()).Msg("Failed to send to client")
	}
}

// snapshot copies a user's clients so sends happen without the lock held
func (h *Hub) snapshot(userID string) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.conns[userID]
	out := make([]ClientInterface, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// ClientCount returns the number of connections of a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// TotalClientCount returns the number of connections across all users
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, set := range h.conns {
		total += len(set)
	}
	return total
}

// CloseAll disconnects every client. Called on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]map[string]ClientInterface)
	h.mu.Unlock()

	for _, set := range conns {
		for _, c := range set {
			_ = c.Close()
		}
	}
}
