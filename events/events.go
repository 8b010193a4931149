package events

import (
	"context"
	"sync"

	"casino/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSettlementCompleted EventType = "settlement_completed"
	EventTypeTableTransferred    EventType = "table_transferred"
	EventTypeBuyBackOpened       EventType = "buyback_opened"
	EventTypeBuyBackResolved     EventType = "buyback_resolved"
	EventTypeDrawCompleted       EventType = "draw_completed"
	EventTypeTableClaimed        EventType = "table_claimed"
	EventTypeTableRelinquished   EventType = "table_relinquished"
	EventTypeMaxBetChanged       EventType = "max_bet_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SettlementCompletedEvent fires after any settlement reaches a
// terminal state, including rejections.
type SettlementCompletedEvent struct {
	SettlementID int64
	TableID      int64
	PlayerID     int64
	State        models.SettlementState
	Paid         int64
	Shortfall    int64
}

func (e SettlementCompletedEvent) Type() EventType {
	return EventTypeSettlementCompleted
}

// TableTransferredEvent fires whenever a table changes hands: shortfall
// transfer, trade sale, gift, or ownership draw. ClosedProfit is the
// outgoing owner's running profit at the moment of transfer.
type TableTransferredEvent struct {
	TableID         int64
	PreviousOwnerID *int64
	NewOwnerID      *int64
	Reason          string
	ClosedProfit    int64
}

func (e TableTransferredEvent) Type() EventType {
	return EventTypeTableTransferred
}

// BuyBackOpenedEvent fires when a shortfall transfer opens an offer
type BuyBackOpenedEvent struct {
	OfferID         string
	TableID         int64
	PreviousOwnerID int64
	NewOwnerID      int64
	PointsOffered   int64
}

func (e BuyBackOpenedEvent) Type() EventType {
	return EventTypeBuyBackOpened
}

// BuyBackResolvedEvent fires when an offer reaches a terminal status
type BuyBackResolvedEvent struct {
	OfferID string
	TableID int64
	Status  models.BuyBackStatus
}

func (e BuyBackResolvedEvent) Type() EventType {
	return EventTypeBuyBackResolved
}

// DrawCompletedEvent fires when a slots ownership draw executes.
// WinnerID is nil when the entry set was empty and the table reverted
// to the house.
type DrawCompletedEvent struct {
	TableID  int64
	WinnerID *int64
	Entrants int
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// TableClaimedEvent fires when a player claims an unclaimed table
type TableClaimedEvent struct {
	TableID int64
	OwnerID int64
	Fee     int64
}

func (e TableClaimedEvent) Type() EventType {
	return EventTypeTableClaimed
}

// TableRelinquishedEvent fires when an owner returns a table to the house
type TableRelinquishedEvent struct {
	TableID int64
	OwnerID int64
}

func (e TableRelinquishedEvent) Type() EventType {
	return EventTypeTableRelinquished
}

// MaxBetChangedEvent fires when an owner adjusts the table limit
type MaxBetChangedEvent struct {
	TableID int64
	OwnerID int64
	MaxBet  int64
}

func (e MaxBetChangedEvent) Type() EventType {
	return EventTypeMaxBetChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking settlement.
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps the given bus for one unit of work
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until the unit of work commits
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle,
	// so emission uses a fresh context.
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
