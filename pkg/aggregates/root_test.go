package aggregates

import (
	"testing"

	"github.com/rpattn/dddkit/pkg/event"
)

type userRenamed struct {
	event.Base
	NewName string
}

func TestRootRecordsEvents(t *testing.T) {
	root := NewRoot()
	first := userRenamed{Base: event.NewBase("UserRenamed", root.ID), NewName: "alice"}
	second := userRenamed{Base: event.NewBase("UserRenamed", root.ID), NewName: "bob"}

	root.Record(first)
	root.Record(second)

	events := root.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventID() != first.EventID() || events[1].EventID() != second.EventID() {
		t.Fatalf("expected events in recording order")
	}
	if events[0].AggregateID() != root.ID || events[0].EventName() != "UserRenamed" {
		t.Fatalf("unexpected event metadata: %+v", events[0])
	}
	if events[0].OccurredAt().IsZero() {
		t.Fatalf("expected occurrence time")
	}
	if root.Version() != 2 {
		t.Fatalf("expected version 2, got %d", root.Version())
	}

	events[0] = nil
	if root.Events()[0] == nil {
		t.Fatalf("expected Events to return a copy")
	}

	root.ClearEvents()
	if len(root.Events()) != 0 {
		t.Fatalf("expected no events after clear")
	}
	if root.Version() != 2 {
		t.Fatalf("clearing events must not reset the version")
	}
}
