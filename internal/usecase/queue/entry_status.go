package queue

import (
	"context"
	"time"

	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
)

// UpdateEntryStatus applies a single transition to one entry without a full
// advance: calling the customer (notified), seating them (in_progress),
// finishing them (completed) or marking them absent (no_show).
func (e *Engine) UpdateEntryStatus(
	ctx context.Context,
	barberID uint,
	bookingID uint,
	to domain.EntryStatus,
) (*models.QueueEntry, error) {

	var out *models.QueueEntry

	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		q, err := e.ensureLocked(ctx, barberID)
		if err != nil {
			return err
		}

		en, err := e.repo.GetActiveEntryByBooking(ctx, q.ID, bookingID)
		if err != nil {
			return err
		}
		if err := domain.CanTransition(domain.EntryStatus(en.Status), to); err != nil {
			return err
		}

		now := e.clock.Now()

		switch to {
		case domain.EntryNotified:
			en.Status = string(to)
			en.NotifiedAt = &now
			if err := e.repo.SaveEntry(ctx, en); err != nil {
				return err
			}
			b, err := e.repo.GetBooking(ctx, bookingID)
			if err != nil {
				return err
			}
			called := e.event(notify.QueueYourTurn, b)
			called.Position = en.Position
			called.Message = "The barber is calling you."
			e.publish(ctx, notify.CustomerChannel(b.CustomerID), called)

		case domain.EntryInProgress:
			if q.CurrentlyServing != nil && *q.CurrentlyServing != bookingID {
				return httperr.ErrInvalidTransition
			}
			if err := e.promote(ctx, q, en, now); err != nil {
				return err
			}
			if err := e.repo.SaveQueue(ctx, q); err != nil {
				return err
			}

		case domain.EntryCompleted:
			if _, err := e.completeServing(ctx, q, bookingID, now); err != nil {
				return err
			}
			if err := e.repo.SaveQueue(ctx, q); err != nil {
				return err
			}
			en.Status = string(to)
			en.CompletedAt = &now

		case domain.EntryNoShow:
			if err := e.markNoShow(ctx, en, now); err != nil {
				return err
			}

		default:
			return httperr.ErrValidation
		}

		entries, err := e.reflow(ctx, q)
		if err != nil {
			return err
		}
		if err := e.nearFront(ctx, entries); err != nil {
			return err
		}

		out = en
		for i := range entries {
			if entries[i].ID == en.ID {
				out = &entries[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) markNoShow(ctx context.Context, en *models.QueueEntry, now time.Time) error {
	b, err := e.repo.GetBookingForUpdate(ctx, en.BookingID)
	if err != nil {
		return err
	}
	if err := domainbooking.Transition(b, domainbooking.StatusNoShow, now); err != nil {
		return err
	}
	if err := e.saveBooking(ctx, b); err != nil {
		return err
	}

	en.Status = string(domain.EntryNoShow)
	en.CompletedAt = &now
	en.EstimatedWaitMinutes = 0
	if err := e.repo.SaveEntry(ctx, en); err != nil {
		return err
	}

	e.publish(ctx, notify.CustomerChannel(b.CustomerID), e.event(notify.BookingStatusChanged, b))
	return nil
}
