package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and timestamps shared by all entities. Embed it
// in concrete entity types.
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase creates a Base with a fresh identity.
func NewBase() Base {
	now := time.Now()
	return Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now()
}

// SameIdentity reports whether both entities share an ID. Entities are equal
// by identity, never by attributes.
func (b Base) SameIdentity(other Base) bool {
	return b.ID != uuid.Nil && b.ID == other.ID
}
