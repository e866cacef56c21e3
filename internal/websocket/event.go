package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeImported EventType = "imported"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeBudget      EntityType = "budget"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType `json:"entity"`    // Entity type e.g. "transaction"
	Payload   any        `json:"payload"`   // Full entity data
	Timestamp time.Time  `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ImportSummary is the payload of a transaction.imported event
type ImportSummary struct {
	Imported int `json:"imported"`
}

func TransactionCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// TransactionsImported reports a bulk import without sending every record
func TransactionsImported(count int) Event {
	return NewEvent(EventTypeImported, EntityTypeTransaction, ImportSummary{Imported: count})
}

func BudgetCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

func BudgetUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

func BudgetDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}
