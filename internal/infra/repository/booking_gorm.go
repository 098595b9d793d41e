package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// scheduleLockNamespace keeps barber schedule locks apart from other
// advisory lock users of the same database.
const scheduleLockNamespace int32 = 7301

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (s *Store) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := s.conn(ctx).First(&barber, barberID).Error; err != nil {
		return nil, translate(err)
	}
	return &barber, nil
}

func (s *Store) ListServices(
	ctx context.Context,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(serviceIDs) == 0 {
		return services, nil
	}
	if err := s.conn(ctx).
		Where("id IN ?", serviceIDs).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (s *Store) IncrementServicePopularity(
	ctx context.Context,
	serviceIDs []uint,
) error {

	if len(serviceIDs) == 0 {
		return nil
	}
	return translate(s.conn(ctx).
		Model(&models.Service{}).
		Where("id IN ?", serviceIDs).
		UpdateColumn("popularity", gorm.Expr("popularity + 1")).Error)
}

// --------------------------------------------------
// Conflict detection
// --------------------------------------------------

// LockBarberSchedule serializes conflict checks for one barber. Row locks on
// overlapping bookings cannot stop an insert into an empty slot, so the lock
// is a transaction-scoped advisory lock keyed by barber id.
func (s *Store) LockBarberSchedule(
	ctx context.Context,
	barberID uint,
) error {
	return translate(s.conn(ctx).
		Exec("SELECT pg_advisory_xact_lock(?, ?)", scheduleLockNamespace, int32(barberID)).Error)
}

func (s *Store) HasConflict(
	ctx context.Context,
	barberID uint,
	start time.Time,
	durationMin int,
	excludeID *uint,
) (bool, error) {

	end := domain.SlotEnd(start, durationMin)

	q := s.conn(ctx).
		Model(&models.Booking{}).
		Where("barber_id = ? AND is_walk_in = ?", barberID, false).
		Where("status IN ?", []string{
			string(domain.StatusConfirmed),
			string(domain.StatusInProgress),
		}).
		Where(
			"scheduled_time < ? AND scheduled_time + total_duration * interval '1 minute' > ?",
			end,
			start,
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

// CreateBooking inserts the booking and its priced service rows. Both share
// the caller's transaction, so a failed association insert leaves nothing.
func (s *Store) CreateBooking(
	ctx context.Context,
	b *models.Booking,
	items []models.BookingService,
) error {

	tx := s.conn(ctx)

	b.Services = nil
	if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
		return translate(err)
	}

	for i := range items {
		items[i].BookingID = b.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return translate(err)
		}
	}

	b.Services = items
	return nil
}

func (s *Store) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := s.conn(ctx).
		Preload("Services").
		First(&b, bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) GetBookingForUpdate(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// UpdateBookingIfVersion is a compare-and-swap on the version column. A map
// is used so nil pointers are written as NULL.
func (s *Store) UpdateBookingIfVersion(
	ctx context.Context,
	b *models.Booking,
	expectedVersion int,
) (bool, error) {

	res := s.conn(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND version = ?", b.ID, expectedVersion).
		Updates(map[string]any{
			"status":                 b.Status,
			"scheduled_time":         b.ScheduledTime,
			"total_duration":         b.TotalDuration,
			"total_amount":           b.TotalAmount,
			"queue_position":         b.QueuePosition,
			"estimated_wait_minutes": b.EstimatedWaitMinutes,
			"actual_start_time":      b.ActualStartTime,
			"actual_end_time":        b.ActualEndTime,
			"cancelled_at":           b.CancelledAt,
			"rating":                 b.Rating,
			"review":                 b.Review,
			"reviewed_at":            b.ReviewedAt,
			"notes":                  b.Notes,
			"version":                expectedVersion + 1,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	b.Version = expectedVersion + 1
	return true, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (s *Store) ListBookingsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := s.conn(ctx).
		Preload("Services").
		Where(
			"barber_id = ? AND scheduled_time >= ? AND scheduled_time < ?",
			barberID,
			start,
			end,
		).
		Order("scheduled_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
