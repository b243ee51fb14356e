// Package queue implements the dispatch core's event queue: a min-heap
// keyed by the composite weight timestamp+delay+priority, tie-broken by
// insertion order. None of the candidate teacher repositories import a
// third-party priority-queue/heap library (they all reach for
// container/heap when they need one), so this stays on the standard
// library by the same convention, documented in DESIGN.md.
package queue

import (
	"container/heap"

	"github.com/webitel/dispatch-core/internal/domain/event"
)

type item struct {
	weight int64
	seq    uint64
	event  *event.Event
}

type heapSlice []item

func (h heapSlice) Len() int { return len(h) }
func (h heapSlice) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].seq < h[j].seq
}
func (h heapSlice) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *heapSlice) Push(x any)   { *h = append(*h, x.(item)) }
func (h *heapSlice) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Queue is the dispatcher's min-heap of pending events.
type Queue struct {
	h   heapSlice
	seq uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push inserts ev, already stamped by the caller, at O(log n). The
// insertion sequence is assigned here and used as the FIFO tiebreaker for
// events of equal weight.
func (q *Queue) Push(ev *event.Event) {
	heap.Push(&q.h, item{weight: ev.Weight(), seq: q.seq, event: ev})
	q.seq++
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return q.h.Len() }

// PopDue returns the head event if its weight is <= currentTime, removing
// it from the queue. It returns (nil, false) when the queue is empty or the
// head is not yet due.
func (q *Queue) PopDue(currentTime uint64) (*event.Event, bool) {
	if q.h.Len() == 0 {
		return nil, false
	}
	head := q.h[0]
	if head.weight > int64(currentTime) {
		return nil, false
	}
	it := heap.Pop(&q.h).(item)
	return it.event, true
}
