package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate. Handlers switch on
// EventType and type-assert to the concrete event for its payload.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// EventMeta is embedded by concrete events and satisfies DomainEvent
type EventMeta struct {
	ID            uuid.UUID `json:"event_id"`
	Type          string    `json:"event_type"`
	At            time.Time `json:"occurred_at"`
	Aggregate     uuid.UUID `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
}

// NewEventMeta stamps a new event id
func NewEventMeta(eventType, aggregateKind string, aggregateID uuid.UUID, at time.Time) EventMeta {
	return EventMeta{
		ID:            uuid.New(),
		Type:          eventType,
		At:            at,
		Aggregate:     aggregateID,
		AggregateKind: aggregateKind,
	}
}

func (m EventMeta) EventID() uuid.UUID     { return m.ID }
func (m EventMeta) EventType() string      { return m.Type }
func (m EventMeta) OccurredAt() time.Time  { return m.At }
func (m EventMeta) AggregateID() uuid.UUID { return m.Aggregate }
func (m EventMeta) AggregateType() string  { return m.AggregateKind }
