package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/txctx"
)

func seedBarber(t *testing.T, s *Store) *models.Barber {
	t.Helper()
	b := &models.Barber{Name: "Ana", Email: "ana@example.com", Active: true, IsAvailable: true}
	if err := s.CreateBarber(context.Background(), b); err != nil {
		t.Fatalf("seed barber: %v", err)
	}
	return b
}

func TestRollbackUndoesWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	barber := seedBarber(t, s)

	boom := errors.New("boom")
	var bookingID uint
	err := s.WithTx(ctx, func(ctx context.Context) error {
		b := &models.Booking{CustomerID: 1, BarberID: barber.ID, TotalDuration: 30, Status: "confirmed"}
		items := []models.BookingService{{ServiceID: 1, Price: 10, DurationMin: 30}}
		if err := s.CreateBooking(ctx, b, items); err != nil {
			t.Fatalf("create booking: %v", err)
		}
		bookingID = b.ID
		if _, err := s.UpdateBarberRatingIfVersion(ctx, barber.ID, 5, 1, 1); err != nil {
			t.Fatalf("update rating: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.GetBooking(ctx, bookingID); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected booking rolled back, got %v", err)
	}
	got, _ := s.GetBarber(ctx, barber.ID)
	if got.Version != 1 || got.TotalRatings != 0 {
		t.Fatalf("expected barber untouched, got version=%d total=%d", got.Version, got.TotalRatings)
	}
}

func TestAfterCommitHooks(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ran int
	_ = s.WithTx(ctx, func(ctx context.Context) error {
		txctx.OnCommit(ctx, func() { ran++ })
		if ran != 0 {
			t.Fatalf("expected hook deferred until commit")
		}
		return nil
	})
	if ran != 1 {
		t.Fatalf("expected hook to run once after commit, got %d", ran)
	}

	_ = s.WithTx(ctx, func(ctx context.Context) error {
		txctx.OnCommit(ctx, func() { ran++ })
		return errors.New("rollback")
	})
	if ran != 1 {
		t.Fatalf("expected hook dropped on rollback, got %d runs", ran)
	}
}

func TestLockTimeout(t *testing.T) {
	s := New(WithLockTimeout(20 * time.Millisecond))
	ctx := context.Background()

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithTx(ctx, func(ctx context.Context) error {
			if err := s.LockBarberSchedule(ctx, 1); err != nil {
				t.Errorf("lock: %v", err)
			}
			close(held)
			<-done
			return nil
		})
	}()
	<-held

	err := s.WithTx(ctx, func(ctx context.Context) error {
		return s.LockBarberSchedule(ctx, 1)
	})
	close(done)

	if !errors.Is(err, httperr.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if !httperr.IsRetryable(err) {
		t.Fatalf("expected lock timeout to be retryable")
	}
}

func TestLockIsReentrant(t *testing.T) {
	s := New(WithLockTimeout(20 * time.Millisecond))

	err := s.WithTx(context.Background(), func(ctx context.Context) error {
		if err := s.LockBarberSchedule(ctx, 1); err != nil {
			return err
		}
		return s.WithTx(ctx, func(ctx context.Context) error {
			return s.LockBarberSchedule(ctx, 1)
		})
	})
	if err != nil {
		t.Fatalf("expected nested lock to succeed, got %v", err)
	}
}

func TestUpdateBookingIfVersion(t *testing.T) {
	s := New()
	ctx := context.Background()

	b := &models.Booking{CustomerID: 1, BarberID: 1, TotalDuration: 30, Status: "confirmed"}
	if err := s.CreateBooking(ctx, b, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	stale := *b
	b.Status = "in_progress"
	ok, err := s.UpdateBookingIfVersion(ctx, b, 1)
	if err != nil || !ok {
		t.Fatalf("expected first write to match, got ok=%v err=%v", ok, err)
	}
	if b.Version != 2 {
		t.Fatalf("expected version 2, got %d", b.Version)
	}

	stale.Status = "cancelled"
	ok, err = s.UpdateBookingIfVersion(ctx, &stale, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("expected stale version to be rejected")
	}

	got, _ := s.GetBooking(ctx, b.ID)
	if got.Status != "in_progress" {
		t.Fatalf("expected in_progress kept, got %s", got.Status)
	}
}

func TestQueueUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateQueueIfAbsent(ctx, &models.Queue{BarberID: 4, AverageServiceTime: 30})
	if err != nil || !created {
		t.Fatalf("expected queue created, got created=%v err=%v", created, err)
	}
	created, err = s.CreateQueueIfAbsent(ctx, &models.Queue{BarberID: 4, AverageServiceTime: 30})
	if err != nil || created {
		t.Fatalf("expected second create to be a no-op, got created=%v err=%v", created, err)
	}

	q, err := s.GetQueue(ctx, 4)
	if err != nil {
		t.Fatalf("get queue: %v", err)
	}

	if err := s.CreateEntry(ctx, &models.QueueEntry{QueueID: q.ID, BookingID: 1, Position: 1, Status: "waiting"}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	err = s.CreateEntry(ctx, &models.QueueEntry{QueueID: q.ID, BookingID: 2, Position: 1, Status: "waiting"})
	if !errors.Is(err, httperr.ErrConcurrentUpdate) {
		t.Fatalf("expected duplicate position rejected, got %v", err)
	}

	done := &models.QueueEntry{QueueID: q.ID, BookingID: 3, Position: 1, Status: "completed"}
	if err := s.CreateEntry(ctx, done); err != nil {
		t.Fatalf("expected terminal entry to ignore active positions, got %v", err)
	}
}

func TestCreateQueueHidesRowUntilKeyIsHeld(t *testing.T) {
	s := New(WithLockTimeout(2 * time.Second))
	ctx := context.Background()
	barber := seedBarber(t, s)

	holding := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan struct{})
	go func() {
		defer close(holderDone)
		_ = s.WithTx(ctx, func(ctx context.Context) error {
			// Takes the key even though no queue exists yet.
			_, _ = s.LockQueue(ctx, barber.ID)
			close(holding)
			<-release
			return errors.New("abort")
		})
	}()
	<-holding

	created := make(chan bool, 1)
	go func() {
		ok, err := s.CreateQueueIfAbsent(ctx, &models.Queue{BarberID: barber.ID, AverageServiceTime: 30})
		if err != nil {
			t.Errorf("create queue: %v", err)
		}
		created <- ok
	}()

	time.Sleep(50 * time.Millisecond)
	if _, err := s.GetQueue(ctx, barber.ID); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected queue hidden while another transaction holds its key, got %v", err)
	}

	close(release)
	<-holderDone

	if ok := <-created; !ok {
		t.Fatalf("expected the waiting creator to insert the queue")
	}
	if _, err := s.GetQueue(ctx, barber.ID); err != nil {
		t.Fatalf("expected queue after creation, got %v", err)
	}
}

func TestCreateQueueRollbackLeavesNothingLocked(t *testing.T) {
	s := New(WithLockTimeout(200 * time.Millisecond))
	ctx := context.Background()
	barber := seedBarber(t, s)

	_ = s.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.CreateQueueIfAbsent(ctx, &models.Queue{BarberID: barber.ID}); err != nil {
			t.Fatalf("create queue: %v", err)
		}
		return errors.New("rollback")
	})

	if _, err := s.GetQueue(ctx, barber.ID); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected queue rolled back, got %v", err)
	}

	ok, err := s.CreateQueueIfAbsent(ctx, &models.Queue{BarberID: barber.ID})
	if err != nil || !ok {
		t.Fatalf("expected a fresh create after rollback, got ok=%v err=%v", ok, err)
	}
}
