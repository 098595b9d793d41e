package queue

import (
	"context"

	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

// Leave removes the booking's active entry and closes the gap it left. A
// booking that is not already terminal ends cancelled. Fails with
// httperr.ErrNotFound when the booking is not in the line.
func (e *Engine) Leave(ctx context.Context, barberID, bookingID uint) error {
	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		q, err := e.ensureLocked(ctx, barberID)
		if err != nil {
			return err
		}

		en, err := e.repo.GetActiveEntryByBooking(ctx, q.ID, bookingID)
		if err != nil {
			return err
		}

		if err := e.repo.DeleteEntry(ctx, en.ID); err != nil {
			return err
		}

		if domain.EntryStatus(en.Status) == domain.EntryInProgress &&
			q.CurrentlyServing != nil && *q.CurrentlyServing == bookingID {
			q.CurrentlyServing = nil
			if err := e.repo.SaveQueue(ctx, q); err != nil {
				return err
			}
		}

		b, err := e.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		// A walk-in out of the line cannot be served any more, so a booking
		// still open here is cancelled along with its entry.
		if !domainbooking.Status(b.Status).Terminal() {
			if err := domainbooking.Cancel(b, e.clock.Now()); err != nil {
				return err
			}
			if err := e.saveBooking(ctx, b); err != nil {
				return err
			}
			e.publish(ctx, notify.CustomerChannel(b.CustomerID), e.event(notify.BookingCancelled, b))
		}

		left := e.event(notify.QueueLeft, b)
		left.Position = en.Position
		e.publish(ctx, notify.BarberChannel(barberID), left)

		entries, err := e.reflow(ctx, q)
		if err != nil {
			return err
		}
		return e.nearFront(ctx, entries)
	})
	if err != nil {
		return err
	}

	e.log.Info("queue left", "barber_id", barberID, "booking_id", bookingID)
	return nil
}
