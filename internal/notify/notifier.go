package notify

import "context"

// Notifier publishes fire-and-forget events. Publish never blocks the
// caller and never reports delivery failures.
type Notifier interface {
	Publish(channel string, ev Event)
}

// Sink delivers one event to one transport.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, channel string, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(string, Event) {}
