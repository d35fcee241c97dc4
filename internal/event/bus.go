package event

import (
	"context"
	"sync"
	"time"

	"billshare/internal/money"
)

// Type identifies a domain event
type Type string

const (
	TypeBillCreated    Type = "bill.created"
	TypeObligationPaid Type = "obligation.paid"
	TypeDebtPaid       Type = "debt.paid"
	TypeBillOverdue    Type = "bill.overdue"
)

// Event carries what subscribers need to react without loading aggregates.
// UserIDs holds every user whose balance the event affects.
type Event struct {
	Type         Type
	BillID       int64
	ObligationID int64
	DebtID       int64
	ActorID      int64
	CreatorID    int64
	OwerIDs      []int64
	Amount       money.Money
	Description  string
	OccurredAt   time.Time
}

// UserIDs returns every user involved in the event, actor included
func (e Event) UserIDs() []int64 {
	ids := make([]int64, 0, len(e.OwerIDs)+2)
	seen := make(map[int64]bool, len(e.OwerIDs)+2)
	for _, id := range append([]int64{e.ActorID, e.CreatorID}, e.OwerIDs...) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// Handler reacts to a published event. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(ctx context.Context, e Event)

// Bus is a minimal in-process publish/subscribe dispatcher
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for the given event types
func (b *Bus) Subscribe(h Handler, types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], h)
	}
}

// Publish dispatches the event to all handlers subscribed to its type
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, e)
	}
}
