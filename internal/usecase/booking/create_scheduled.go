package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduledBookingInput struct {
	CustomerID uint
	BarberID   uint
	ServiceIDs []uint

	ScheduledTime time.Time
	Notes         string
}

// ======================================================
// USE CASE
// ======================================================

type CreateScheduledBooking struct {
	base
}

func NewCreateScheduledBooking(
	repo domain.Repository,
	notifier notify.Notifier,
	opts ...Option,
) *CreateScheduledBooking {
	return &CreateScheduledBooking{base: newBase(repo, notifier, opts)}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateScheduledBooking) Execute(
	ctx context.Context,
	in CreateScheduledBookingInput,
) (*models.Booking, error) {

	if in.CustomerID == 0 || in.BarberID == 0 || in.ScheduledTime.IsZero() {
		return nil, httperr.ErrValidation
	}
	if err := checkServiceIDs(in.ServiceIDs); err != nil {
		return nil, err
	}
	if in.ScheduledTime.Before(uc.clock.Now()) {
		return nil, httperr.ErrValidation
	}

	var b *models.Booking

	err := uc.repo.WithTx(ctx, func(ctx context.Context) error {
		// --------------------------------------------------
		// Barber and services
		// --------------------------------------------------
		barber, err := uc.activeBarber(ctx, in.BarberID)
		if err != nil {
			return err
		}

		p, err := uc.priceServices(ctx, in.BarberID, in.ServiceIDs)
		if err != nil {
			return err
		}

		start := in.ScheduledTime.UTC()
		end := domain.SlotEnd(start, p.duration)
		if !domain.IsWithinWorkingHours(barber, start, end, uc.loc) {
			return httperr.ErrValidation
		}

		// --------------------------------------------------
		// Conflict check under the schedule lock
		// --------------------------------------------------
		if err := uc.repo.LockBarberSchedule(ctx, in.BarberID); err != nil {
			return err
		}

		conflict, err := uc.repo.HasConflict(ctx, in.BarberID, start, p.duration, nil)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrSlotConflict
		}

		// --------------------------------------------------
		// Insert
		// --------------------------------------------------
		b = &models.Booking{
			CustomerID:    in.CustomerID,
			BarberID:      in.BarberID,
			ScheduledTime: start,
			TotalDuration: p.duration,
			TotalAmount:   p.amount,
			Status:        string(domain.InitialScheduledStatus()),
			Notes:         in.Notes,
		}
		if err := uc.repo.CreateBooking(ctx, b, p.items); err != nil {
			return err
		}

		if err := uc.repo.IncrementServicePopularity(ctx, in.ServiceIDs); err != nil {
			return err
		}

		uc.publish(ctx, notify.BarberChannel(b.BarberID), uc.event(notify.BookingCreated, b))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("booking created",
		"booking_id", b.ID,
		"barber_id", b.BarberID,
		"scheduled_time", b.ScheduledTime,
	)
	return b, nil
}
