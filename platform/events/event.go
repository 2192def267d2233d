// Package events is the in-process publish/subscribe bus that connects the
// lead store to the views and jobs that react to lead changes.
package events

import (
	"context"
	"time"
)

// Event is implemented by every message carried on the bus.
type Event interface {
	// EventName is the subscription key, e.g. "leads.lead.created".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the UTC time the change was committed.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the wall clock.
func NewBaseEvent() BaseEvent {
	return NewBaseEventAt(time.Now())
}

// NewBaseEventAt stamps an event with t, so components with an injected
// clock publish events that agree with the data they changed.
func NewBaseEventAt(t time.Time) BaseEvent {
	return BaseEvent{Timestamp: t.UTC()}
}

// Handler reacts to one published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe to the bus.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Bus delivers events to the handlers subscribed under their EventName.
type Bus interface {
	// Publish fans the event out on background goroutines. Handler errors
	// are logged and never reach the publisher.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the handlers in subscription order and returns
	// their joined errors.
	PublishSync(ctx context.Context, event Event) error

	Subscribe(eventName string, handler Handler)
}
