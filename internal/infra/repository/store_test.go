package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/testutil"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewTestDB(t), WithLockTimeout(2*time.Second))
}

func seedBarber(t *testing.T, s *Store, email string) *models.Barber {
	t.Helper()
	b := &models.Barber{Name: "Leo", Email: email, PasswordHash: "x", Active: true, IsAvailable: true}
	if err := s.CreateBarber(context.Background(), b); err != nil {
		t.Fatalf("seed barber: %v", err)
	}
	return b
}

func scheduled(barberID uint, at time.Time, minutes int) *models.Booking {
	return &models.Booking{
		CustomerID:    1,
		BarberID:      barberID,
		ScheduledTime: at,
		TotalDuration: minutes,
		TotalAmount:   50,
		Status:        "confirmed",
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := newStore(t)
	seedBarber(t, s, "leo@example.com")

	err := s.CreateBarber(context.Background(), &models.Barber{Name: "Other", Email: "leo@example.com", PasswordHash: "x"})
	if !errors.Is(err, httperr.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestHasConflictHalfOpen(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	barber := seedBarber(t, s, "leo@example.com")

	at := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
	b := scheduled(barber.ID, at, 60)
	if err := s.CreateBooking(ctx, b, nil); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"same slot", at, true},
		{"overlapping tail", at.Add(30 * time.Minute), true},
		{"touching end", at.Add(time.Hour), false},
		{"touching start", at.Add(-time.Hour), false},
	}
	for _, tt := range tests {
		got, err := s.HasConflict(ctx, barber.ID, tt.start, 60, nil)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	if got, _ := s.HasConflict(ctx, barber.ID, at, 60, &b.ID); got {
		t.Fatalf("expected the excluded booking to be ignored")
	}
}

func TestUpdateBookingIfVersion(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	barber := seedBarber(t, s, "leo@example.com")

	b := scheduled(barber.ID, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), 30)
	if err := s.CreateBooking(ctx, b, nil); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	b.Status = "in_progress"
	ok, err := s.UpdateBookingIfVersion(ctx, b, 1)
	if err != nil || !ok {
		t.Fatalf("expected first write to win, got ok=%v err=%v", ok, err)
	}

	b.Status = "cancelled"
	ok, err = s.UpdateBookingIfVersion(ctx, b, 1)
	if err != nil || ok {
		t.Fatalf("expected stale write to miss, got ok=%v err=%v", ok, err)
	}

	got, _ := s.GetBooking(ctx, b.ID)
	if got.Status != "in_progress" || got.Version != 2 {
		t.Fatalf("expected in_progress v2, got %s v%d", got.Status, got.Version)
	}
}

func TestCreateQueueIfAbsentConcurrent(t *testing.T) {
	s := newStore(t)
	barber := seedBarber(t, s, "leo@example.com")

	created := make(chan bool, 8)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			ok, err := s.CreateQueueIfAbsent(context.Background(), &models.Queue{BarberID: barber.ID, AverageServiceTime: 30})
			created <- ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	close(created)

	wins := 0
	for ok := range created {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one creator, got %d", wins)
	}
}

func TestScheduleLockSerializesConflictChecks(t *testing.T) {
	s := newStore(t)
	barber := seedBarber(t, s, "leo@example.com")
	at := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)

	results := make(chan error, 6)
	var g errgroup.Group
	for i := 0; i < 6; i++ {
		g.Go(func() error {
			results <- s.WithTx(context.Background(), func(ctx context.Context) error {
				if err := s.LockBarberSchedule(ctx, barber.ID); err != nil {
					return err
				}
				clash, err := s.HasConflict(ctx, barber.ID, at, 60, nil)
				if err != nil {
					return err
				}
				if clash {
					return httperr.ErrSlotConflict
				}
				return s.CreateBooking(ctx, scheduled(barber.ID, at, 60), nil)
			})
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, httperr.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 5 {
		t.Fatalf("expected 1 success and 5 conflicts, got %d and %d", ok, conflicts)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	barber := seedBarber(t, s, "leo@example.com")

	var id uint
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context) error {
		b := scheduled(barber.ID, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), 30)
		if err := s.CreateBooking(ctx, b, nil); err != nil {
			return err
		}
		id = b.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.GetBooking(ctx, id); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after rollback, got %v", err)
	}
}
