package queue

import (
	"context"

	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

// Join appends a walk-in booking to the end of the barber's line and
// returns its position.
func (e *Engine) Join(ctx context.Context, barberID, bookingID uint) (int, error) {
	var position int

	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		q, err := e.ensureLocked(ctx, barberID)
		if err != nil {
			return err
		}

		entries, err := e.repo.ListActiveEntries(ctx, q.ID)
		if err != nil {
			return err
		}

		b, err := e.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.IsWalkIn || b.BarberID != barberID {
			return httperr.ErrValidation
		}
		if domainbooking.Status(b.Status).Terminal() {
			return httperr.ErrInvalidTransition
		}
		for _, en := range entries {
			if en.BookingID == bookingID {
				return httperr.ErrValidation
			}
		}

		now := e.clock.Now()
		position = domain.NextPosition(entries)
		wait := domain.EstimatedWait(position, q.AverageServiceTime)

		entry := &models.QueueEntry{
			QueueID:              q.ID,
			BookingID:            bookingID,
			Position:             position,
			Status:               string(domain.EntryWaiting),
			EstimatedWaitMinutes: wait,
			JoinedAt:             now,
		}
		if err := e.repo.CreateEntry(ctx, entry); err != nil {
			return err
		}

		b.QueuePosition = &position
		b.EstimatedWaitMinutes = &wait
		if err := e.saveBooking(ctx, b); err != nil {
			return err
		}

		joined := e.event(notify.QueueJoined, b)
		joined.Position = position
		joined.WaitMin = wait
		e.publish(ctx, notify.BarberChannel(barberID), joined)

		pos := e.event(notify.QueuePositionChanged, b)
		pos.Position = position
		pos.WaitMin = wait
		e.publish(ctx, notify.CustomerChannel(b.CustomerID), pos)

		return e.nearFront(ctx, append(entries, *entry))
	})
	if err != nil {
		return 0, err
	}

	e.log.Info("queue joined",
		"barber_id", barberID,
		"booking_id", bookingID,
		"position", position,
	)
	return position, nil
}
