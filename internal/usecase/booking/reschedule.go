package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

type RescheduleBooking struct {
	base
}

func NewRescheduleBooking(
	repo domain.Repository,
	notifier notify.Notifier,
	opts ...Option,
) *RescheduleBooking {
	return &RescheduleBooking{base: newBase(repo, notifier, opts)}
}

// Execute moves a scheduled booking to newTime. The booking's own interval
// is ignored by the conflict check.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	bookingID uint,
	customerID uint,
	newTime time.Time,
) (*models.Booking, error) {

	if newTime.IsZero() || newTime.Before(uc.clock.Now()) {
		return nil, httperr.ErrValidation
	}

	pre, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(pre, domain.CustomerActor(customerID)) {
		return nil, httperr.ErrForbidden
	}
	if pre.IsWalkIn {
		return nil, httperr.ErrInvalidTransition
	}

	var b *models.Booking

	err = uc.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.LockBarberSchedule(ctx, pre.BarberID); err != nil {
			return err
		}

		var err error
		b, err = uc.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
			return err
		}

		barber, err := uc.repo.GetBarber(ctx, b.BarberID)
		if err != nil {
			return err
		}

		start := newTime.UTC()
		if !domain.IsWithinWorkingHours(barber, start, domain.SlotEnd(start, b.TotalDuration), uc.loc) {
			return httperr.ErrValidation
		}

		self := b.ID
		conflict, err := uc.repo.HasConflict(ctx, b.BarberID, start, b.TotalDuration, &self)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrSlotConflict
		}

		if err := domain.Reschedule(b, start); err != nil {
			return err
		}
		if err := uc.save(ctx, b); err != nil {
			return err
		}

		uc.publish(ctx, notify.BarberChannel(b.BarberID), uc.event(notify.BookingRescheduled, b))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("booking rescheduled", "booking_id", b.ID, "scheduled_time", b.ScheduledTime)
	return b, nil
}
