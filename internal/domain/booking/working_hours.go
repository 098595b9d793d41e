package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// IsWithinWorkingHours checks [start, end) against the barber's daily window,
// evaluated in loc. A barber without a window accepts any time.
func IsWithinWorkingHours(
	barber *models.Barber,
	start time.Time,
	end time.Time,
	loc *time.Location,
) bool {
	if barber.WorkStart == "" || barber.WorkEnd == "" {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}

	localStart := start.In(loc)
	localEnd := end.In(loc)

	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			localStart.Year(), localStart.Month(), localStart.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	workStart, ok1 := parseHM(barber.WorkStart)
	workEnd, ok2 := parseHM(barber.WorkEnd)
	if !ok1 || !ok2 {
		return false
	}

	return !localStart.Before(workStart) && !localEnd.After(workEnd)
}
