package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDispatchesToSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{}, 2)

	handler := func(_ context.Context, e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		done <- struct{}{}
	}
	bus.Subscribe(EventTypeSettlementCompleted, handler)
	bus.Subscribe(EventTypeSettlementCompleted, handler)
	bus.Subscribe(EventTypeTableTransferred, func(context.Context, Event) {
		t.Error("wrong event type dispatched")
	})

	bus.Emit(context.Background(), SettlementCompletedEvent{TableID: 1, PlayerID: 77})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler not invoked")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, EventTypeSettlementCompleted, received[0].Type())
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeDrawCompleted, func(context.Context, Event) {
		defer close(done)
		panic("handler failure")
	})

	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), DrawCompletedEvent{TableID: 1})
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{}, 1)
	bus.Subscribe(EventTypeBuyBackOpened, func(_ context.Context, e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		done <- struct{}{}
	})

	// Discarded events never reach the real bus.
	tx := NewTransactionalBus(bus)
	tx.Publish(BuyBackOpenedEvent{TableID: 1})
	tx.Discard()
	require.NoError(t, tx.Flush(context.Background()))

	// Flushed events do.
	tx = NewTransactionalBus(bus)
	tx.Publish(BuyBackOpenedEvent{TableID: 2})
	require.NoError(t, tx.Flush(context.Background()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flushed event not dispatched")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, int64(2), received[0].(BuyBackOpenedEvent).TableID)
}
