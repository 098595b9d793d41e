package notify

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/logger"
)

const (
	DefaultBuffer  = 100
	deliverTimeout = 2 * time.Second
)

type envelope struct {
	channel string
	event   Event
}

// Dispatcher queues events in a bounded buffer and fans them out to every
// sink from a single worker. A full buffer drops the event.
type Dispatcher struct {
	log   *logger.Logger
	sinks []Sink
	queue chan envelope

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(log *logger.Logger, buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logger.Nop()
	}

	d := &Dispatcher{
		log:   log,
		sinks: sinks,
		queue: make(chan envelope, buffer),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for env := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
			err := sink.Deliver(ctx, env.channel, env.event)
			cancel()
			if err != nil {
				d.log.Error("notify sink failed",
					"sink", sink.Name(),
					"channel", env.channel,
					"event_id", env.event.ID,
					"type", env.event.Type,
					"error", err,
				)
			}
		}
	}
}

func (d *Dispatcher) Publish(channel string, ev Event) {
	select {
	case d.queue <- envelope{channel: channel, event: ev}:
	default:
		d.log.Warn("notify queue full, dropping event",
			"channel", channel,
			"type", ev.Type,
		)
	}
}

// Close stops accepting events and waits for the buffer to drain or ctx
// to expire. Publish must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Notifier = (*Dispatcher)(nil)
