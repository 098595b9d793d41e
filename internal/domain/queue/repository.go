package queue

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// -------- Queue --------

	// CreateQueueIfAbsent inserts q unless the barber already has a queue.
	// Concurrent callers all succeed; exactly one reports created=true.
	CreateQueueIfAbsent(ctx context.Context, q *models.Queue) (bool, error)

	// LockQueue reads the barber's queue row and holds an exclusive lock on
	// it until the transaction ends.
	LockQueue(ctx context.Context, barberID uint) (*models.Queue, error)

	GetQueue(ctx context.Context, barberID uint) (*models.Queue, error)

	SaveQueue(ctx context.Context, q *models.Queue) error

	// -------- Entries --------

	// ListActiveEntries returns waiting, notified and in-progress entries
	// ordered by position.
	ListActiveEntries(ctx context.Context, queueID uint) ([]models.QueueEntry, error)

	GetActiveEntryByBooking(ctx context.Context, queueID, bookingID uint) (*models.QueueEntry, error)

	CreateEntry(ctx context.Context, e *models.QueueEntry) error

	SaveEntry(ctx context.Context, e *models.QueueEntry) error

	DeleteEntry(ctx context.Context, entryID uint) error

	// -------- Owners --------
	GetBarber(ctx context.Context, barberID uint) (*models.Barber, error)

	GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error)

	GetBookingForUpdate(ctx context.Context, bookingID uint) (*models.Booking, error)

	UpdateBookingIfVersion(ctx context.Context, b *models.Booking, expectedVersion int) (bool, error)
}
