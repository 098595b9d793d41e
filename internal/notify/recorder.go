package notify

import (
	"context"
	"sync"
)

type Published struct {
	Channel string
	Event   Event
}

// Recorder keeps every event in memory. It works both as a Notifier and as
// a Sink.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(channel string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Channel: channel, Event: ev})
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Deliver(_ context.Context, channel string, ev Event) error {
	r.Publish(channel, ev)
	return nil
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}

// On returns the events of one type published on channel.
func (r *Recorder) On(channel string, t EventType) []Event {
	var out []Event
	for _, p := range r.Events() {
		if p.Channel == channel && p.Event.Type == t {
			out = append(out, p.Event)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
