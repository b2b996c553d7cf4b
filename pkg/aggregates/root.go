// Package aggregates provides the aggregate root base type. Query
// specifications over aggregates live in the specification subpackage.
package aggregates

import (
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/event"
)

// Root is embedded by aggregate roots. It records the events raised since the
// aggregate was loaded so a repository can publish them after persisting.
type Root struct {
	entity.Base
	version int64
	events  []event.Event
}

// NewRoot creates a root with a fresh identity.
func NewRoot() Root {
	return Root{Base: entity.NewBase()}
}

// Record appends e to the uncommitted events and bumps the version.
func (r *Root) Record(e event.Event) {
	r.events = append(r.events, e)
	r.version++
	r.Touch()
}

// Events returns a copy of the uncommitted events in the order recorded.
func (r *Root) Events() []event.Event {
	return append([]event.Event(nil), r.events...)
}

// ClearEvents drops the uncommitted events once they have been published.
func (r *Root) ClearEvents() {
	r.events = nil
}

// Version is the number of events recorded over the aggregate's lifetime.
func (r *Root) Version() int64 { return r.version }

// SetVersion restores the version of a rehydrated aggregate.
func (r *Root) SetVersion(v int64) { r.version = v }
