package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := map[[2]Status]bool{
		{StatusPending, StatusInProgress}:   true,
		{StatusConfirmed, StatusInProgress}: true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusPending, StatusCancelled}:    true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusInProgress, StatusCancelled}: true,
		{StatusPending, StatusNoShow}:       true,
		{StatusConfirmed, StatusNoShow}:     true,
	}

	all := []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow}
	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Fatalf("%s -> %s: expected allowed, got %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, httperr.ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestTransitionStampsTimes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	pos := 2
	b := &models.Booking{Status: string(StatusPending), QueuePosition: &pos}

	if err := Transition(b, StatusInProgress, now); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.ActualStartTime == nil || !b.ActualStartTime.Equal(now) {
		t.Fatalf("expected actual start %v, got %v", now, b.ActualStartTime)
	}

	later := now.Add(40 * time.Minute)
	if err := Transition(b, StatusCompleted, later); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.ActualEndTime == nil || !b.ActualEndTime.Equal(later) {
		t.Fatalf("expected actual end %v, got %v", later, b.ActualEndTime)
	}
	if b.QueuePosition != nil {
		t.Fatalf("expected queue position cleared on terminal status")
	}

	if err := Transition(b, StatusCancelled, later); !errors.Is(err, httperr.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if b.Status != string(StatusCompleted) {
		t.Fatalf("expected status unchanged, got %s", b.Status)
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	at := func(h, m int) time.Time { return time.Date(2026, 3, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name string
		a, b [2]time.Time
		want bool
	}{
		{"identical", [2]time.Time{at(14, 0), at(15, 0)}, [2]time.Time{at(14, 0), at(15, 0)}, true},
		{"partial", [2]time.Time{at(14, 0), at(15, 0)}, [2]time.Time{at(14, 30), at(15, 30)}, true},
		{"contained", [2]time.Time{at(14, 0), at(16, 0)}, [2]time.Time{at(14, 30), at(15, 0)}, true},
		{"touching end", [2]time.Time{at(14, 0), at(15, 0)}, [2]time.Time{at(15, 0), at(16, 0)}, false},
		{"touching start", [2]time.Time{at(15, 0), at(16, 0)}, [2]time.Time{at(14, 0), at(15, 0)}, false},
		{"disjoint", [2]time.Time{at(9, 0), at(10, 0)}, [2]time.Time{at(11, 0), at(12, 0)}, false},
	}

	for _, tt := range tests {
		if got := Overlaps(tt.a[0], tt.a[1], tt.b[0], tt.b[1]); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestReview(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("rejects non completed", func(t *testing.T) {
		b := &models.Booking{Status: string(StatusConfirmed)}
		if err := Review(b, 5, "", now); !errors.Is(err, httperr.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		b := &models.Booking{Status: string(StatusCompleted)}
		if err := Review(b, 6, "", now); !errors.Is(err, httperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("only once", func(t *testing.T) {
		b := &models.Booking{Status: string(StatusCompleted)}
		if err := Review(b, 4, "great", now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := Review(b, 2, "", now); !errors.Is(err, httperr.ErrAlreadyReviewed) {
			t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
		}
		if *b.Rating != 4 {
			t.Fatalf("expected rating 4 kept, got %d", *b.Rating)
		}
	})
}

func TestIsWithinWorkingHours(t *testing.T) {
	t.Parallel()

	barber := &models.Barber{WorkStart: "09:00", WorkEnd: "18:00"}
	day := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	if !IsWithinWorkingHours(barber, day(9, 0), day(10, 0), time.UTC) {
		t.Fatalf("expected 09:00-10:00 inside window")
	}
	if !IsWithinWorkingHours(barber, day(17, 0), day(18, 0), time.UTC) {
		t.Fatalf("expected slot ending at close inside window")
	}
	if IsWithinWorkingHours(barber, day(17, 30), day(18, 30), time.UTC) {
		t.Fatalf("expected slot past close rejected")
	}
	if !IsWithinWorkingHours(&models.Barber{}, day(23, 0), day(23, 59), time.UTC) {
		t.Fatalf("expected barber without window to accept any time")
	}
}

func TestCanAct(t *testing.T) {
	t.Parallel()

	b := &models.Booking{CustomerID: 7, BarberID: 3}

	if !CanAct(b, CustomerActor(7)) {
		t.Fatalf("expected customer to act on own booking")
	}
	if !CanAct(b, BarberActor(3)) {
		t.Fatalf("expected barber to act on own booking")
	}
	if CanAct(b, BarberActor(7)) {
		t.Fatalf("expected barber with the customer's id to be rejected")
	}
	if CanAct(b, CustomerActor(3)) {
		t.Fatalf("expected customer with the barber's id to be rejected")
	}
}
