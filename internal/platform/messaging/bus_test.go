package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "tokengate/contracts/gen/events/v1"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus([]string{"localhost:9092"}, nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	if err := bus.Subscribe(ctx, "asset-control.events", "test", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(ctx, "asset-control.events", contractsv1.Envelope{EventID: "evt-1", EventType: "controller.paused"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not delivered")
	}
}

func TestBusRejectsAfterClose(t *testing.T) {
	bus := NewBus(nil, nil)
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	err := bus.Publish(context.Background(), "topic", contractsv1.Envelope{EventID: "evt"})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
