package circuit

import (
	"testing"
	"time"

	"github.com/webitel/dispatch-core/internal/domain/ident"
)

func TestInvokeContainsPanic(t *testing.T) {
	b := New(Settings{MaxFailures: 100, OpenFor: time.Second})
	lt := ident.MustListenerType("flaky")

	got := b.Invoke(lt, func() bool { panic("boom") })
	if got {
		t.Fatalf("expected panic to be reported as an unsuccessful invocation")
	}
}

func TestInvokeTripsAfterConsecutivePanics(t *testing.T) {
	b := New(Settings{MaxFailures: 2, OpenFor: time.Minute})
	lt := ident.MustListenerType("flaky")

	calls := 0
	panicky := func() bool { calls++; panic("boom") }

	b.Invoke(lt, panicky)
	b.Invoke(lt, panicky)
	// breaker should now be open; this call must not invoke panicky again.
	b.Invoke(lt, panicky)

	if calls != 2 {
		t.Fatalf("got %d calls through an open breaker, want 2", calls)
	}
}

func TestInvokePassesThroughSuccessAndCleanFailure(t *testing.T) {
	b := New(DefaultSettings)
	lt := ident.MustListenerType("well-behaved")

	if !b.Invoke(lt, func() bool { return true }) {
		t.Fatalf("expected true to pass through")
	}
	if b.Invoke(lt, func() bool { return false }) {
		t.Fatalf("expected false to pass through")
	}
}
