package booking

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type CreateWalkInBookingInput struct {
	CustomerID uint
	BarberID   uint
	ServiceIDs []uint
	Notes      string
}

// CreateWalkInBooking books a walk-in and puts it at the end of the barber's
// line in one transaction. Walk-ins never take part in slot conflicts.
type CreateWalkInBooking struct {
	base
	engine *queue.Engine
}

func NewCreateWalkInBooking(
	repo domain.Repository,
	engine *queue.Engine,
	notifier notify.Notifier,
	opts ...Option,
) *CreateWalkInBooking {
	return &CreateWalkInBooking{
		base:   newBase(repo, notifier, opts),
		engine: engine,
	}
}

func (uc *CreateWalkInBooking) Execute(
	ctx context.Context,
	in CreateWalkInBookingInput,
) (*models.Booking, int, error) {

	if in.CustomerID == 0 || in.BarberID == 0 {
		return nil, 0, httperr.ErrValidation
	}
	if err := checkServiceIDs(in.ServiceIDs); err != nil {
		return nil, 0, err
	}

	var (
		id       uint
		position int
	)

	err := uc.repo.WithTx(ctx, func(ctx context.Context) error {
		// Queue lock first: booking rows are only ever locked after it.
		if _, err := uc.engine.EnsureQueue(ctx, in.BarberID); err != nil {
			return err
		}

		barber, err := uc.activeBarber(ctx, in.BarberID)
		if err != nil {
			return err
		}
		if !barber.IsAvailable {
			return httperr.ErrNotFound
		}

		p, err := uc.priceServices(ctx, in.BarberID, in.ServiceIDs)
		if err != nil {
			return err
		}

		b := &models.Booking{
			CustomerID:    in.CustomerID,
			BarberID:      in.BarberID,
			ScheduledTime: uc.clock.Now(),
			TotalDuration: p.duration,
			TotalAmount:   p.amount,
			Status:        string(domain.InitialWalkInStatus()),
			IsWalkIn:      true,
			Notes:         in.Notes,
		}
		if err := uc.repo.CreateBooking(ctx, b, p.items); err != nil {
			return err
		}

		if err := uc.repo.IncrementServicePopularity(ctx, in.ServiceIDs); err != nil {
			return err
		}

		position, err = uc.engine.Join(ctx, in.BarberID, b.ID)
		if err != nil {
			return err
		}
		id = b.ID
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	uc.log.Info("walk-in booked",
		"booking_id", b.ID,
		"barber_id", b.BarberID,
		"position", position,
	)
	return b, position, nil
}
