package queue

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

// nearFrontDepth is how many positions from the front get a heads-up.
const nearFrontDepth = 2

// NotifyNearFront tells waiting customers at the front of the line how
// close they are. It reads the current line and changes nothing.
func (e *Engine) NotifyNearFront(ctx context.Context, barberID uint) error {
	q, err := e.repo.GetQueue(ctx, barberID)
	if err != nil {
		return err
	}
	entries, err := e.repo.ListActiveEntries(ctx, q.ID)
	if err != nil {
		return err
	}
	return e.nearFront(ctx, entries)
}

func (e *Engine) nearFront(ctx context.Context, entries []models.QueueEntry) error {
	for _, en := range entries {
		if en.Position > nearFrontDepth {
			continue
		}
		st := domain.EntryStatus(en.Status)
		if st != domain.EntryWaiting && st != domain.EntryNotified {
			continue
		}

		b, err := e.repo.GetBooking(ctx, en.BookingID)
		if err != nil {
			return err
		}

		t, msg := notify.QueueAlmostYourTurn, "Almost your turn."
		if en.Position == 1 {
			t, msg = notify.QueueYouAreNext, "You are next!"
		}

		ev := e.event(t, b)
		ev.Position = en.Position
		ev.WaitMin = en.EstimatedWaitMinutes
		ev.Message = msg
		e.publish(ctx, notify.CustomerChannel(b.CustomerID), ev)
	}
	return nil
}
