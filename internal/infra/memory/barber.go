package memory

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/barber"
)

func (s *Store) UpdateBarberRatingIfVersion(
	ctx context.Context,
	barberID uint,
	rating float64,
	totalRatings int,
	expectedVersion int,
) (bool, error) {

	var matched bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.lock(ctx, barberKey(barberID)); err != nil {
			return err
		}
		t := txFrom(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		cur, ok := s.barbers[barberID]
		if !ok || cur.Version != expectedVersion {
			return nil
		}

		next := cloneOf(cur)
		next.Rating = rating
		next.TotalRatings = totalRatings
		next.Version = expectedVersion + 1
		next.UpdatedAt = s.now()
		put(t, s.barbers, barberID, next)

		matched = true
		return nil
	})
	return matched, err
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
