package queue

import (
	"github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

type EntryStatus string

const (
	EntryWaiting    EntryStatus = "waiting"
	EntryNotified   EntryStatus = "notified"
	EntryInProgress EntryStatus = "in_progress"
	EntryCompleted  EntryStatus = "completed"
	EntryNoShow     EntryStatus = "no_show"
)

var entryTransitions = map[EntryStatus][]EntryStatus{
	EntryWaiting:    {EntryNotified, EntryInProgress, EntryNoShow},
	EntryNotified:   {EntryInProgress, EntryNoShow},
	EntryInProgress: {EntryCompleted},
}

// Active entries hold a position in the line.
func (s EntryStatus) Active() bool {
	return s == EntryWaiting || s == EntryNotified || s == EntryInProgress
}

func (s EntryStatus) Valid() bool {
	return s.Active() || s == EntryCompleted || s == EntryNoShow
}

func CanTransition(from, to EntryStatus) error {
	for _, next := range entryTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition
}

// BookingStatusFor maps an entry status to the owning booking's status.
// Waiting and notified entries leave the booking untouched.
func BookingStatusFor(s EntryStatus) (booking.Status, bool) {
	switch s {
	case EntryInProgress:
		return booking.StatusInProgress, true
	case EntryCompleted:
		return booking.StatusCompleted, true
	case EntryNoShow:
		return booking.StatusNoShow, true
	}
	return "", false
}

// EntryStatusFor maps a requested booking status onto the queue entry
// transition that produces it.
func EntryStatusFor(s booking.Status) (EntryStatus, bool) {
	switch s {
	case booking.StatusInProgress:
		return EntryInProgress, true
	case booking.StatusCompleted:
		return EntryCompleted, true
	case booking.StatusNoShow:
		return EntryNoShow, true
	}
	return "", false
}
