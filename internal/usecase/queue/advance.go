package queue

import (
	"context"
	"errors"
	"time"

	domainbooking "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/aggregate"
)

type AdvanceResult struct {
	CompletedBookingID *uint `json:"completed_booking_id"`
	NextBookingID      uint  `json:"next_booking_id"`
}

// AdvanceToNext finishes whoever is in the chair and calls the first person
// waiting. An in-progress booking is completed even if the barber never
// closed it explicitly.
func (e *Engine) AdvanceToNext(ctx context.Context, barberID uint) (*AdvanceResult, error) {
	res := &AdvanceResult{}

	err := e.repo.WithTx(ctx, func(ctx context.Context) error {
		q, err := e.ensureLocked(ctx, barberID)
		if err != nil {
			return err
		}

		entries, err := e.repo.ListActiveEntries(ctx, q.ID)
		if err != nil {
			return err
		}

		next := firstWaiting(entries)
		if next == nil {
			return httperr.ErrEmptyQueue
		}

		now := e.clock.Now()

		if q.CurrentlyServing != nil {
			done, err := e.completeServing(ctx, q, *q.CurrentlyServing, now)
			if err != nil {
				return err
			}
			res.CompletedBookingID = done
		}

		if err := e.promote(ctx, q, next, now); err != nil {
			return err
		}
		res.NextBookingID = next.BookingID

		if err := e.repo.SaveQueue(ctx, q); err != nil {
			return err
		}

		entries, err = e.reflow(ctx, q)
		if err != nil {
			return err
		}
		return e.nearFront(ctx, entries)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("queue advanced",
		"barber_id", barberID,
		"next_booking_id", res.NextBookingID,
		"force_completed", res.CompletedBookingID != nil,
	)
	return res, nil
}

// firstWaiting is the lowest positioned entry not yet in the chair.
func firstWaiting(entries []models.QueueEntry) *models.QueueEntry {
	for i := range entries {
		st := domain.EntryStatus(entries[i].Status)
		if st == domain.EntryWaiting || st == domain.EntryNotified {
			return &entries[i]
		}
	}
	return nil
}

// completeServing closes the booking in the chair. It returns the booking
// id when a booking was actually completed, and always clears the pointer.
func (e *Engine) completeServing(
	ctx context.Context,
	q *models.Queue,
	bookingID uint,
	now time.Time,
) (*uint, error) {

	q.CurrentlyServing = nil

	b, err := e.repo.GetBookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if en, err := e.repo.GetActiveEntryByBooking(ctx, q.ID, bookingID); err == nil {
		en.Status = string(domain.EntryCompleted)
		en.CompletedAt = &now
		en.EstimatedWaitMinutes = 0
		if err := e.repo.SaveEntry(ctx, en); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, httperr.ErrNotFound) {
		return nil, err
	}

	if domainbooking.Status(b.Status) != domainbooking.StatusInProgress {
		return nil, nil
	}

	if err := domainbooking.Transition(b, domainbooking.StatusCompleted, now); err != nil {
		return nil, err
	}
	if err := e.saveBooking(ctx, b); err != nil {
		return nil, err
	}

	aggregate.RecordServed(q, b.ActualStartTime, now)

	e.publish(ctx, notify.CustomerChannel(b.CustomerID), e.event(notify.BookingStatusChanged, b))

	id := b.ID
	return &id, nil
}

// promote puts the entry in the chair and points the queue at it.
func (e *Engine) promote(
	ctx context.Context,
	q *models.Queue,
	en *models.QueueEntry,
	now time.Time,
) error {

	if err := domain.CanTransition(domain.EntryStatus(en.Status), domain.EntryInProgress); err != nil {
		return err
	}

	b, err := e.repo.GetBookingForUpdate(ctx, en.BookingID)
	if err != nil {
		return err
	}
	if err := domainbooking.Transition(b, domainbooking.StatusInProgress, now); err != nil {
		return err
	}

	en.Status = string(domain.EntryInProgress)
	if en.NotifiedAt == nil {
		en.NotifiedAt = &now
	}
	en.StartedAt = &now
	en.EstimatedWaitMinutes = 0
	if err := e.repo.SaveEntry(ctx, en); err != nil {
		return err
	}

	zero := 0
	b.EstimatedWaitMinutes = &zero
	if err := e.saveBooking(ctx, b); err != nil {
		return err
	}

	id := b.ID
	q.CurrentlyServing = &id

	up := e.event(notify.QueueYourTurn, b)
	up.Message = "You're up!"
	e.publish(ctx, notify.CustomerChannel(b.CustomerID), up)

	adv := e.event(notify.QueueAdvanced, b)
	e.publish(ctx, notify.BarberChannel(q.BarberID), adv)

	return nil
}
