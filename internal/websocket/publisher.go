package websocket

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connection of the given user
	Publish(userID string, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID string, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher drops every event. Used by the CLI and in tests.
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID string, event Event) {}
