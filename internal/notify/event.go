package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	BookingCreated       EventType = "booking.created"
	BookingCancelled     EventType = "booking.cancelled"
	BookingRescheduled   EventType = "booking.rescheduled"
	BookingStatusChanged EventType = "booking.status_changed"
	BookingReviewed      EventType = "booking.reviewed"

	QueueJoined          EventType = "queue.joined"
	QueueLeft            EventType = "queue.left"
	QueuePositionChanged EventType = "queue.position_changed"
	QueueAdvanced        EventType = "queue.advanced"
	QueueYourTurn        EventType = "queue.your_turn"
	QueueYouAreNext      EventType = "queue.you_are_next"
	QueueAlmostYourTurn  EventType = "queue.almost_your_turn"
)

// Event is the payload published on a channel. Zero fields are omitted on
// the wire.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	BarberID   uint      `json:"barber_id,omitempty"`
	CustomerID uint      `json:"customer_id,omitempty"`
	BookingID  uint      `json:"booking_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Position   int       `json:"position,omitempty"`
	WaitMin    int       `json:"estimated_wait_minutes,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a fresh id. OccurredAt is set by the caller's clock.
func NewEvent(t EventType, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: at}
}

func BarberChannel(barberID uint) string {
	return fmt.Sprintf("barber:%d", barberID)
}

func CustomerChannel(customerID uint) string {
	return fmt.Sprintf("customer:%d", customerID)
}
