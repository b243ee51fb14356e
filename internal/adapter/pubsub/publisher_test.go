package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/webitel/dispatch-core/internal/domain/event"
	"github.com/webitel/dispatch-core/internal/domain/ident"
)

type fakePublisher struct {
	published []*message.Message
	topics    []string
	closed    bool
}

func (f *fakePublisher) Publish(topic string, messages ...*message.Message) error {
	f.topics = append(f.topics, topic)
	f.published = append(f.published, messages...)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestBridgePublishesRoutedEventType(t *testing.T) {
	et := ident.MustEventType("order_placed")
	pub := &fakePublisher{}
	b := New(pub, BridgeConfig{Routes: []Route{
		{EventType: et, Exchange: "orders.events", RoutingKey: "orders.placed.v1"},
	}})

	ev := event.New(et, 42, 0)
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("got %d published messages, want 1", len(pub.published))
	}
	if pub.topics[0] != "orders.placed.v1" {
		t.Fatalf("got routing key %q, want orders.placed.v1", pub.topics[0])
	}

	var env struct {
		EventType string `json:"event_type"`
		Subject   uint64 `json:"subject"`
	}
	if err := json.Unmarshal(pub.published[0].Payload, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.EventType != "order_placed" || env.Subject != 42 {
		t.Fatalf("got envelope %+v, want event_type=order_placed subject=42", env)
	}
}

func TestBridgeSkipsUnroutedEventType(t *testing.T) {
	pub := &fakePublisher{}
	b := New(pub, BridgeConfig{})

	ev := event.New(ident.MustEventType("unrouted"), 1, 0)
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("got %d published messages, want 0", len(pub.published))
	}
}

func TestBridgePublishNilEventIsNoop(t *testing.T) {
	pub := &fakePublisher{}
	b := New(pub, BridgeConfig{})

	if err := b.Publish(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no publish for nil event")
	}
}
