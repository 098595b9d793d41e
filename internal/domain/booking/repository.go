package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	// WithTx runs fn in a transaction. Nested calls join the outer one.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// -------- Barber / Service --------
	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.Barber, error)

	ListServices(
		ctx context.Context,
		serviceIDs []uint,
	) ([]models.Service, error)

	IncrementServicePopularity(
		ctx context.Context,
		serviceIDs []uint,
	) error

	// -------- Conflict detection --------

	// LockBarberSchedule takes an exclusive lock on the barber's schedule
	// for the rest of the transaction.
	LockBarberSchedule(
		ctx context.Context,
		barberID uint,
	) error

	// HasConflict reports whether a blocking, non walk-in booking of the
	// barber overlaps [start, start+durationMin). excludeID skips one booking.
	HasConflict(
		ctx context.Context,
		barberID uint,
		start time.Time,
		durationMin int,
		excludeID *uint,
	) (bool, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
		items []models.BookingService,
	) error

	GetBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	GetBookingForUpdate(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// UpdateBookingIfVersion writes b only if the stored version still equals
	// expectedVersion, bumping it by one. Returns false when nothing matched.
	UpdateBookingIfVersion(
		ctx context.Context,
		b *models.Booking,
		expectedVersion int,
	) (bool, error)

	// -------- Agenda --------
	ListBookingsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
