// Package events provides the event bus the offer workflow publishes its
// domain events on. It carries no business logic; the event payloads live
// with the modules that publish them.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event put on the bus.
type Event interface {
	// EventName identifies the event type, dot-separated by module, for
	// example "offers.offer.accepted" or "notification.outbox.due".
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp every event shares. Embed it in event
// payload structs.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes and subscribes to domain events.
type Bus interface {
	// Publish fans an event out to the handlers registered for its name.
	// Handlers run asynchronously; a failing handler never reaches the
	// publisher, which is what keeps notification trouble out of committed
	// offer transitions.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits for every handler, returning
	// the first handler error. The scheduler worker uses it so outbox
	// delivery failures feed the retry cycle.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given EventName value.
	Subscribe(eventName string, handler Handler)
}
