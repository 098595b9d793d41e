package memory

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (s *Store) GetBarber(ctx context.Context, barberID uint) (*models.Barber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.barbers[barberID]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	return cloneOf(b), nil
}

func (s *Store) ListServices(ctx context.Context, serviceIDs []uint) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Service
	seen := make(map[uint]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if svc, ok := s.services[id]; ok {
			out = append(out, *svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) IncrementServicePopularity(ctx context.Context, serviceIDs []uint) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		for _, id := range serviceIDs {
			svc, ok := s.services[id]
			if !ok {
				continue
			}
			next := cloneOf(svc)
			next.Popularity++
			put(t, s.services, id, next)
		}
		return nil
	})
}

// --------------------------------------------------
// Conflict detection
// --------------------------------------------------

func (s *Store) LockBarberSchedule(ctx context.Context, barberID uint) error {
	return s.lock(ctx, scheduleKey(barberID))
}

func (s *Store) HasConflict(
	ctx context.Context,
	barberID uint,
	start time.Time,
	durationMin int,
	excludeID *uint,
) (bool, error) {

	end := domain.SlotEnd(start, durationMin)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.BarberID != barberID || b.IsWalkIn {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if !domain.Status(b.Status).Blocking() {
			continue
		}
		if domain.Overlaps(b.ScheduledTime, b.EndTime(), start, end) {
			return true, nil
		}
	}
	return false, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (s *Store) CreateBooking(
	ctx context.Context,
	b *models.Booking,
	items []models.BookingService,
) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		t := txFrom(ctx)

		s.mu.Lock()
		now := s.now()
		b.ID = s.nextID("bookings")
		b.CreatedAt, b.UpdatedAt = now, now
		if b.Status == "" {
			b.Status = string(domain.StatusPending)
		}
		if b.Version == 0 {
			b.Version = 1
		}

		for i := range items {
			items[i].ID = s.nextID("booking_services")
			items[i].BookingID = b.ID
			items[i].CreatedAt = now
		}
		b.Services = items

		put(t, s.bookings, b.ID, cloneBooking(b))
		put(t, s.bookingServices, b.ID, append([]models.BookingService(nil), items...))
		s.mu.Unlock()

		// A fresh row is locked by its inserting transaction.
		return s.lock(ctx, bookingKey(b.ID))
	})
}

func (s *Store) GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingLocked(bookingID)
}

func (s *Store) bookingLocked(bookingID uint) (*models.Booking, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	c := cloneBooking(b)
	c.Services = append([]models.BookingService(nil), s.bookingServices[bookingID]...)
	return c, nil
}

func (s *Store) GetBookingForUpdate(ctx context.Context, bookingID uint) (*models.Booking, error) {
	if err := s.lock(ctx, bookingKey(bookingID)); err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, bookingID)
}

func (s *Store) UpdateBookingIfVersion(
	ctx context.Context,
	b *models.Booking,
	expectedVersion int,
) (bool, error) {

	var matched bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.lock(ctx, bookingKey(b.ID)); err != nil {
			return err
		}
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		cur, ok := s.bookings[b.ID]
		if !ok || cur.Version != expectedVersion {
			return nil
		}

		next := cloneBooking(b)
		next.Services = nil
		next.Version = expectedVersion + 1
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = s.now()
		put(t, s.bookings, b.ID, next)

		b.Version = next.Version
		b.UpdatedAt = next.UpdatedAt
		matched = true
		return nil
	})
	return matched, err
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

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for id, b := range s.bookings {
		if b.BarberID != barberID {
			continue
		}
		if b.ScheduledTime.Before(start) || !b.ScheduledTime.Before(end) {
			continue
		}
		c, _ := s.bookingLocked(id)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
