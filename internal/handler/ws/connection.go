// Package ws is the dispatch core's WebSocket push listener (§4.8): a
// connecting client is registered as a wildcard listener whose callable
// pushes delivered events onto the connection's buffered channel, mirroring
// the reference service's connect.Send/handleBackpressure drop-oldest
// policy instead of blocking the dispatcher actor on a slow socket.
package ws

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// connection buffers events destined for one WebSocket client.
type connection struct {
	listenerType ident.ListenerType

	sendCh    chan *event.Event
	closeOnce sync.Once

	droppedCount uint64
}

func newConnection(bufferSize int) *connection {
	return &connection{
		listenerType: ident.MustListenerType("ws:" + uuid.NewString()),
		sendCh:       make(chan *event.Event, bufferSize),
	}
}

// push enqueues ev, evicting the oldest buffered event to make room when
// full instead of blocking the dispatcher's delivery loop. Returns false
// when a concurrent writer takes the freed slot first and ev is dropped.
// Calling push after close panics, since sendCh is then closed.
func (c *connection) push(ev *event.Event) bool {
	select {
	case c.sendCh <- ev:
		return true
	default:
	}

	select {
	case <-c.sendCh:
		atomic.AddUint64(&c.droppedCount, 1)
	default:
	}

	select {
	case c.sendCh <- ev:
		return true
	default:
		// Another writer raced us for the freed slot; the event is dropped
		// rather than blocking the caller (the dispatcher actor).
		atomic.AddUint64(&c.droppedCount, 1)
		return false
	}
}

func (c *connection) recv() <-chan *event.Event { return c.sendCh }

func (c *connection) close() {
	c.closeOnce.Do(func() { close(c.sendCh) })
}
