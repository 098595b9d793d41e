package booking

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Blocking statuses occupy the barber's time for conflict detection.
func (s Status) Blocking() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// ===============================
// Validations
// ===============================

// CanTransition checks a move along the booking state machine.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition
}

// CanCancel rejects bookings that already reached a terminal status.
func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

// CanReschedule only allows bookings that have not started yet.
func CanReschedule(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrInvalidTransition
	}
	return nil
}

func InitialScheduledStatus() Status {
	return StatusConfirmed
}

func InitialWalkInStatus() Status {
	return StatusPending
}
