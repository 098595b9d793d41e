package aggregate

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// ResetDaily zeroes the served counter the first time the queue is touched
// on a new calendar day. It reports whether q changed.
func ResetDaily(q *models.Queue, today string) bool {
	if q.LastResetDate == today {
		return false
	}
	q.TotalServedToday = 0
	q.LastResetDate = today
	return true
}

// RecordServed counts one finished service and folds its duration into the
// average. A service without a recorded start only bumps the counter.
func RecordServed(q *models.Queue, startedAt *time.Time, endedAt time.Time) {
	q.TotalServedToday++

	if startedAt == nil || endedAt.Before(*startedAt) {
		return
	}
	actual := queue.ServiceMinutes(endedAt.Sub(*startedAt).Seconds())
	q.AverageServiceTime = queue.NextAverage(q.AverageServiceTime, actual)
}
