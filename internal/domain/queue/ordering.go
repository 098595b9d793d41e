package queue

import (
	"math"
	"sort"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// NextPosition is one past the highest active position, or 1 on an empty line.
func NextPosition(entries []models.QueueEntry) int {
	max := 0
	for _, e := range entries {
		if EntryStatus(e.Status).Active() && e.Position > max {
			max = e.Position
		}
	}
	return max + 1
}

// EstimatedWait is the expected wait in minutes for someone at position.
func EstimatedWait(position, averageServiceTime int) int {
	if position <= 1 {
		return 0
	}
	return (position - 1) * averageServiceTime
}

// Renumbering is one position change produced by Compact.
type Renumbering struct {
	EntryID   uint
	BookingID uint
	From      int
	To        int
}

// Compact renumbers active entries to 1..N keeping their relative order and
// returns only the entries whose position changed, in ascending order of the
// new position. Applying them in that order never collides with an entry
// that has not been moved yet.
func Compact(entries []models.QueueEntry) []Renumbering {
	active := make([]models.QueueEntry, 0, len(entries))
	for _, e := range entries {
		if EntryStatus(e.Status).Active() {
			active = append(active, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Position < active[j].Position
	})

	var changes []Renumbering
	for i, e := range active {
		want := i + 1
		if e.Position != want {
			changes = append(changes, Renumbering{
				EntryID:   e.ID,
				BookingID: e.BookingID,
				From:      e.Position,
				To:        want,
			})
		}
	}
	return changes
}

// IsContiguous reports whether the active positions are exactly 1..N.
func IsContiguous(entries []models.QueueEntry) bool {
	var positions []int
	for _, e := range entries {
		if EntryStatus(e.Status).Active() {
			positions = append(positions, e.Position)
		}
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i+1 {
			return false
		}
	}
	return true
}

// NextAverage folds one observed service time into the running estimate as
// a two-point moving average: (old + actual) / 2, rounded to whole minutes.
func NextAverage(oldAvg, actualMinutes int) int {
	return int(math.Round(float64(oldAvg+actualMinutes) / 2))
}

// ServiceMinutes is the whole-minute length of a service, at least 1.
func ServiceMinutes(seconds float64) int {
	m := int(math.Round(seconds / 60))
	if m < 1 {
		return 1
	}
	return m
}
