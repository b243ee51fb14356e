package event

import (
	"testing"

	"github.com/webitel/dispatch-core/internal/adapter/bytebuffer"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	et := ident.MustEventType("test.roundtrip")
	RegisterPayload(et, PayloadHooks{
		Serialize: func(out *bytebuffer.ByteBuffer, payload any) {
			out.WriteUint32(payload.(uint32))
		},
		Deserialize: func(in *bytebuffer.ByteBuffer) (any, error) {
			return in.ReadUint32()
		},
	})

	e := NewWithPayload(et, 1, 0, uint32(42))
	buf := bytebuffer.New()
	e.Serialize(buf)

	out := New(et, 1, 0)
	if err := out.Deserialize(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Payload().(uint32) != 42 {
		t.Fatalf("got payload %v, want 42", out.Payload())
	}
}

func TestDeserializeInvalidBufferTooShort(t *testing.T) {
	et := ident.MustEventType("test.short")
	e := New(et, 1, 0)
	buf := bytebuffer.New()
	buf.WriteUint16(1)
	if err := e.Deserialize(buf); err == nil {
		t.Fatalf("expected ErrInvalidBuffer for a short buffer")
	}
}

func TestDeserializeInvalidBufferTypeMismatch(t *testing.T) {
	a := ident.MustEventType("test.a")
	b := ident.MustEventType("test.b")

	src := New(a, 1, 0)
	buf := bytebuffer.New()
	src.Serialize(buf)

	dst := New(b, 1, 0)
	if err := dst.Deserialize(buf); err == nil {
		t.Fatalf("expected ErrInvalidBuffer for ident mismatch")
	}
}

func TestConsumeFiresCallbackOnceWhenHandled(t *testing.T) {
	et := ident.MustEventType("test.consume")
	e := New(et, 1, 0)

	calls := 0
	e.OnComplete(func() { calls++ })
	e.Consume(true)

	if calls != 1 {
		t.Fatalf("got %d callback invocations, want 1", calls)
	}
}

func TestConsumeSkipsCallbackWhenHookRejects(t *testing.T) {
	et := ident.MustEventType("test.reject")
	RegisterPayload(et, PayloadHooks{
		Consume: func(handled bool, payload any) bool { return false },
	})

	e := New(et, 1, 0)
	calls := 0
	e.OnComplete(func() { calls++ })
	e.Consume(true)

	if calls != 0 {
		t.Fatalf("got %d callback invocations, want 0", calls)
	}
}

func TestWeightIsSumOfTimestampDelayPriority(t *testing.T) {
	et := ident.MustEventType("test.weight")
	e := New(et, 1, 5)
	e.SetTimestamp(100)
	e.SetPriority(-3)

	if got, want := e.Weight(), int64(102); got != want {
		t.Fatalf("got weight %d, want %d", got, want)
	}
}
