package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves b to the given status and stamps the matching timestamp.
// It does not touch the version; stores bump it on write.
func Transition(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusInProgress:
		b.ActualStartTime = &now
	case StatusCompleted:
		b.ActualEndTime = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}

	if to.Terminal() {
		b.QueuePosition = nil
		b.EstimatedWaitMinutes = nil
	}

	b.Status = string(to)
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	return Transition(b, StatusCancelled, now)
}

// Reschedule moves a not-yet-started booking to a new start time. A pending
// booking is confirmed again by the move.
func Reschedule(b *models.Booking, newTime time.Time) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}
	b.ScheduledTime = newTime
	b.Status = string(StatusConfirmed)
	return nil
}

// Review records the customer's rating once the service is done.
func Review(b *models.Booking, rating int, review string, now time.Time) error {
	if rating < 1 || rating > 5 {
		return httperr.ErrValidation
	}
	if Status(b.Status) != StatusCompleted {
		return httperr.ErrInvalidTransition
	}
	if b.Rating != nil {
		return httperr.ErrAlreadyReviewed
	}

	b.Rating = &rating
	if review != "" {
		b.Review = &review
	}
	b.ReviewedAt = &now
	return nil
}

// Actor is the authenticated party acting on a booking. Barber and customer
// ids come from different tables, so the role is part of the identity.
type Actor struct {
	ID     uint
	Barber bool
}

func BarberActor(id uint) Actor   { return Actor{ID: id, Barber: true} }
func CustomerActor(id uint) Actor { return Actor{ID: id} }

// CanAct reports whether the actor is either party of the booking.
func CanAct(b *models.Booking, actor Actor) bool {
	if actor.Barber {
		return b.BarberID == actor.ID
	}
	return b.CustomerID == actor.ID
}
