package booking

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	queuedomain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type UpdateStatus struct {
	base
	engine *queue.Engine
}

func NewUpdateStatus(
	repo domain.Repository,
	engine *queue.Engine,
	notifier notify.Notifier,
	opts ...Option,
) *UpdateStatus {
	return &UpdateStatus{
		base:   newBase(repo, notifier, opts),
		engine: engine,
	}
}

// Execute moves the booking to status on behalf of its barber. The write is
// conditioned on the version read at the start; a miss fails with
// httperr.ErrConcurrentUpdate and the caller decides whether to retry.
//
// Walk-ins are routed through the queue engine so the line and the
// currently-serving pointer follow the booking.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	bookingID uint,
	barberID uint,
	status domain.Status,
) (*models.Booking, error) {

	if !status.Valid() {
		return nil, httperr.ErrValidation
	}

	read, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(read, domain.BarberActor(barberID)) {
		return nil, httperr.ErrForbidden
	}
	if err := domain.CanTransition(domain.Status(read.Status), status); err != nil {
		return nil, err
	}

	if read.IsWalkIn {
		if err := uc.walkIn(ctx, read, status); err != nil {
			return nil, err
		}
		return uc.repo.GetBooking(ctx, bookingID)
	}

	b := read
	err = uc.repo.WithTx(ctx, func(ctx context.Context) error {
		readVersion := b.Version
		if err := domain.Transition(b, status, uc.clock.Now()); err != nil {
			return err
		}

		ok, err := uc.repo.UpdateBookingIfVersion(ctx, b, readVersion)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrConcurrentUpdate
		}

		uc.publish(ctx, notify.CustomerChannel(b.CustomerID), uc.event(notify.BookingStatusChanged, b))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("booking status updated", "booking_id", b.ID, "status", b.Status)
	return b, nil
}

func (uc *UpdateStatus) walkIn(ctx context.Context, read *models.Booking, status domain.Status) error {
	return uc.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.engine.EnsureQueue(ctx, read.BarberID); err != nil {
			return err
		}

		b, err := uc.repo.GetBookingForUpdate(ctx, read.ID)
		if err != nil {
			return err
		}
		if b.Version != read.Version {
			return httperr.ErrConcurrentUpdate
		}

		if status == domain.StatusCancelled {
			if err := domain.Cancel(b, uc.clock.Now()); err != nil {
				return err
			}
			if err := uc.save(ctx, b); err != nil {
				return err
			}
			if err := uc.engine.Leave(ctx, b.BarberID, b.ID); err != nil && !errors.Is(err, httperr.ErrNotFound) {
				return err
			}
			uc.publish(ctx, notify.CustomerChannel(b.CustomerID), uc.event(notify.BookingCancelled, b))
			return nil
		}

		to, ok := queuedomain.EntryStatusFor(status)
		if !ok {
			return httperr.ErrInvalidTransition
		}
		_, err = uc.engine.UpdateEntryStatus(ctx, b.BarberID, b.ID, to)
		return err
	})
}
