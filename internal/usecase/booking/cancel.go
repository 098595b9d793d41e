package booking

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type CancelBooking struct {
	base
	engine *queue.Engine
}

func NewCancelBooking(
	repo domain.Repository,
	engine *queue.Engine,
	notifier notify.Notifier,
	opts ...Option,
) *CancelBooking {
	return &CancelBooking{
		base:   newBase(repo, notifier, opts),
		engine: engine,
	}
}

// Execute cancels the booking on behalf of either party. A walk-in also
// leaves the line, and the remaining entries close the gap, in the same
// transaction.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actor domain.Actor,
) (*models.Booking, error) {

	pre, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(pre, actor) {
		return nil, httperr.ErrForbidden
	}

	var b *models.Booking

	err = uc.repo.WithTx(ctx, func(ctx context.Context) error {
		if pre.IsWalkIn {
			if _, err := uc.engine.EnsureQueue(ctx, pre.BarberID); err != nil {
				return err
			}
		}

		var err error
		b, err = uc.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if err := domain.Cancel(b, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.save(ctx, b); err != nil {
			return err
		}

		if b.IsWalkIn {
			err := uc.engine.Leave(ctx, b.BarberID, b.ID)
			if err != nil && !errors.Is(err, httperr.ErrNotFound) {
				return err
			}
		}

		uc.publish(ctx, counterParty(b, actor), uc.event(notify.BookingCancelled, b))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("booking cancelled",
		"booking_id", b.ID,
		"by_barber", actor.Barber,
		"walk_in", b.IsWalkIn,
	)
	return b, nil
}
