package queue

import (
	"testing"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

func stamped(t *testing.T, name string, ts, delay uint64, priority int32) *event.Event {
	t.Helper()
	e := event.New(ident.MustEventType(name), 1, delay)
	e.SetTimestamp(ts)
	e.SetPriority(priority)
	return e
}

func TestPopDueOrdersByWeight(t *testing.T) {
	q := New()
	low := stamped(t, "low", 10, 0, 0)
	high := stamped(t, "high", 20, 0, 0)

	q.Push(high)
	q.Push(low)

	got, ok := q.PopDue(100)
	if !ok || got != low {
		t.Fatalf("expected lower-weight event first")
	}
	got, ok = q.PopDue(100)
	if !ok || got != high {
		t.Fatalf("expected higher-weight event second")
	}
}

func TestPopDueRespectsFIFOTiebreak(t *testing.T) {
	q := New()
	first := stamped(t, "first", 10, 0, 0)
	second := stamped(t, "second", 10, 0, 0)

	q.Push(first)
	q.Push(second)

	got, _ := q.PopDue(100)
	if got != first {
		t.Fatalf("expected insertion-order tiebreak to favor the first-pushed event")
	}
	got, _ = q.PopDue(100)
	if got != second {
		t.Fatalf("expected second-pushed event to follow")
	}
}

func TestPopDueWithholdsNotYetDueEvents(t *testing.T) {
	q := New()
	q.Push(stamped(t, "future", 50, 0, 0))

	if _, ok := q.PopDue(10); ok {
		t.Fatalf("expected no due event before its weight is reached")
	}
	if q.Len() != 1 {
		t.Fatalf("expected event to remain queued")
	}
	if _, ok := q.PopDue(50); !ok {
		t.Fatalf("expected event due once current time reaches its weight")
	}
}
