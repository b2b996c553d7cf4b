// Package event defines domain events raised by aggregates.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fact that happened to an aggregate.
type Event interface {
	EventID() uuid.UUID
	EventName() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// Base implements Event. Embed it in concrete event types.
type Base struct {
	id          uuid.UUID
	name        string
	aggregateID uuid.UUID
	occurredAt  time.Time
}

// NewBase stamps a new event occurrence.
func NewBase(name string, aggregateID uuid.UUID) Base {
	return Base{
		id:          uuid.New(),
		name:        name,
		aggregateID: aggregateID,
		occurredAt:  time.Now().UTC(),
	}
}

func (b Base) EventID() uuid.UUID     { return b.id }
func (b Base) EventName() string      { return b.name }
func (b Base) AggregateID() uuid.UUID { return b.aggregateID }
func (b Base) OccurredAt() time.Time  { return b.occurredAt }
