package ws

import (
	"testing"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

var wsTestEventType = ident.MustEventType("ws_test_event")

func TestConnectionPushWithinCapacity(t *testing.T) {
	c := newConnection(2)
	ev := event.New(wsTestEventType, 1, 0)

	if !c.push(ev) {
		t.Fatalf("expected push within capacity to succeed")
	}
	select {
	case got := <-c.recv():
		if got != ev {
			t.Fatalf("got different event back")
		}
	default:
		t.Fatalf("expected buffered event to be receivable")
	}
}

func TestConnectionPushDropsOldestOnFull(t *testing.T) {
	c := newConnection(1)
	first := event.New(wsTestEventType, 1, 0)
	second := event.New(wsTestEventType, 2, 0)

	if !c.push(first) {
		t.Fatalf("expected first push to succeed")
	}
	if !c.push(second) {
		t.Fatalf("expected second push to evict the oldest and succeed")
	}

	got := <-c.recv()
	if got != second {
		t.Fatalf("expected the newer event to survive eviction")
	}
}

func TestConnectionCloseStopsReceive(t *testing.T) {
	c := newConnection(1)
	c.close()

	_, ok := <-c.recv()
	if ok {
		t.Fatalf("expected recv channel closed")
	}
}
