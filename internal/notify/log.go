package notify

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/logger"
)

// LogSink writes events to the structured log. Used when no broker is
// configured.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, channel string, ev Event) error {
	s.log.Info("event published",
		"channel", channel,
		"event_id", ev.ID,
		"type", ev.Type,
		"booking_id", ev.BookingID,
		"position", ev.Position,
	)
	return nil
}
