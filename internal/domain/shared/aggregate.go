package shared

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate is embedded by every persisted aggregate: products, carts and
// orders. Version guards concurrent writers; events recorded by behaviour
// methods wait here until the service publishes them after commit.
type Aggregate struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int

	pending []DomainEvent
}

// NewAggregate stamps a fresh identity at now
func NewAggregate(now time.Time) Aggregate {
	return Aggregate{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touch moves UpdatedAt to now
func (a *Aggregate) Touch(now time.Time) {
	a.UpdatedAt = now
}

// BumpVersion is called by repositories once a versioned update lands
func (a *Aggregate) BumpVersion() {
	a.Version++
}

// Record queues ev for publication
func (a *Aggregate) Record(ev DomainEvent) {
	a.pending = append(a.pending, ev)
}

// Events returns the queued events without draining them
func (a *Aggregate) Events() []DomainEvent {
	return a.pending
}

// PullEvents drains the queue
func (a *Aggregate) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
