package aggregate

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/retry"
)

type alwaysStaleRepo struct {
	barber models.Barber
	writes int
}

func (r *alwaysStaleRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *alwaysStaleRepo) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	b := r.barber
	return &b, nil
}

func (r *alwaysStaleRepo) UpdateBarberRatingIfVersion(ctx context.Context, id uint, rating float64, total, version int) (bool, error) {
	r.writes++
	return false, nil
}

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestRatingUpdaterSurfacesConcurrentUpdate(t *testing.T) {
	repo := &alwaysStaleRepo{barber: models.Barber{ID: 1, Version: 1}}
	u := NewRatingUpdater(repo, WithRetryPolicy(fastPolicy(3)))

	_, err := u.Execute(context.Background(), 1, 5)
	if !errors.Is(err, httperr.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
	if repo.writes != 3 {
		t.Fatalf("expected 3 attempts, got %d", repo.writes)
	}
}

func TestRatingUpdaterRejectsInvalidRating(t *testing.T) {
	repo := &alwaysStaleRepo{barber: models.Barber{ID: 1, Version: 1}}
	u := NewRatingUpdater(repo, WithRetryPolicy(fastPolicy(3)))

	_, err := u.Execute(context.Background(), 1, 9)
	if !errors.Is(err, httperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no write attempts, got %d", repo.writes)
	}
}

func TestRatingUpdaterFirstRating(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	b := &models.Barber{Name: "Rui", Email: "rui@example.com", Active: true}
	if err := store.CreateBarber(ctx, b); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := NewRatingUpdater(store)
	got, err := u.Execute(ctx, b.ID, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Rating != 5 || got.TotalRatings != 1 || got.Version != 2 {
		t.Fatalf("unexpected barber after first rating: %+v", got)
	}
}

func TestRatingUpdaterConcurrentMean(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	b := &models.Barber{Name: "Rui", Email: "rui@example.com", Active: true}
	if err := store.CreateBarber(ctx, b); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := NewRatingUpdater(store, WithRetryPolicy(fastPolicy(50)))
	ratings := []int{5, 4, 3, 5, 1, 2, 4, 5}

	var g errgroup.Group
	for _, r := range ratings {
		r := r
		g.Go(func() error {
			return store.WithTx(ctx, func(ctx context.Context) error {
				_, err := u.Execute(ctx, b.ID, r)
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("expected all ratings applied, got %v", err)
	}

	got, _ := store.GetBarber(ctx, b.ID)
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	want := float64(sum) / float64(len(ratings))

	if got.TotalRatings != len(ratings) {
		t.Fatalf("expected total %d, got %d", len(ratings), got.TotalRatings)
	}
	if math.Abs(got.Rating-want) > 1e-9 {
		t.Fatalf("expected mean %v, got %v", want, got.Rating)
	}
	if got.Version != 1+len(ratings) {
		t.Fatalf("expected version %d, got %d", 1+len(ratings), got.Version)
	}
}

func TestQueueCounters(t *testing.T) {
	q := &models.Queue{AverageServiceTime: 30, TotalServedToday: 7, LastResetDate: "2026-03-01"}

	if ResetDaily(q, "2026-03-01") {
		t.Fatalf("expected no reset on the same day")
	}
	if !ResetDaily(q, "2026-03-02") || q.TotalServedToday != 0 {
		t.Fatalf("expected reset on a new day, got %+v", q)
	}

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	RecordServed(q, &start, start.Add(20*time.Minute))
	if q.TotalServedToday != 1 || q.AverageServiceTime != 25 {
		t.Fatalf("expected served=1 avg=25, got served=%d avg=%d", q.TotalServedToday, q.AverageServiceTime)
	}

	RecordServed(q, nil, start)
	if q.TotalServedToday != 2 || q.AverageServiceTime != 25 {
		t.Fatalf("expected avg untouched without a start time, got %+v", q)
	}
}
