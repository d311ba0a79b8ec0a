// Package events provides a small synchronous pub/sub used for ticket
// notifications. Handlers run in subscription order on the publisher's
// goroutine; the first handler error aborts the remaining handlers and is
// returned to the caller. Audit logging does not go through here: it is
// written transactionally by the services.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names a ticket lifecycle event.
type EventType string

const (
	TicketCreated       EventType = "ticket_created"
	TicketAssigned      EventType = "ticket_assigned"
	TicketUnassigned    EventType = "ticket_unassigned"
	TicketStatusUpdated EventType = "ticket_status_updated"
	TicketDeleted       EventType = "ticket_deleted"
)

// Event is the payload delivered to handlers.
type Event struct {
	ID        string
	Type      EventType
	TicketID  string
	ActorID   string
	Timestamp time.Time
	Payload   map[string]string
}

// Handler consumes events for one or more event types.
type Handler func(ctx context.Context, event Event) error

// Dispatcher routes events to subscribed handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for an event type.
func (d *Dispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish delivers the event to every subscribed handler, stopping at and
// returning the first handler error.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	d.mu.RLock()
	handlers := d.handlers[event.Type]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
