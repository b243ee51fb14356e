package dispatch

import "context"

type result[T any] struct {
	val T
	err error
}

// Future is the dispatch core's deferred result handle (§5/§6 of the
// specification): every Dispatcher operation returns one immediately, and
// the caller blocks on Wait to observe completion. This lets the
// dispatcher serialize all mutation onto its own actor goroutine without
// exposing that choice in the call shape.
type Future[T any] struct {
	ch     chan result[T]
	cached *result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{ch: make(chan result[T], 1)}
}

func (f *Future[T]) complete(val T, err error) {
	f.ch <- result[T]{val: val, err: err}
}

// Wait blocks until the dispatcher actor has processed the command, or ctx
// is done first. It is safe to call Wait more than once; the result is
// cached after the first successful receive.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	if f.cached != nil {
		return f.cached.val, f.cached.err
	}
	select {
	case r := <-f.ch:
		f.cached = &r
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Sync blocks on f using a background context. Pure sugar for callers
// (tests, the HTTP handler) that always want to block immediately; it does
// not change the actor's serialization.
func Sync[T any](f *Future[T]) (T, error) {
	return f.Wait(context.Background())
}
