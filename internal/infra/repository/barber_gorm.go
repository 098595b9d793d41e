package repository

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/barber"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func (s *Store) UpdateBarberRatingIfVersion(
	ctx context.Context,
	barberID uint,
	rating float64,
	totalRatings int,
	expectedVersion int,
) (bool, error) {

	res := s.conn(ctx).
		Model(&models.Barber{}).
		Where("id = ? AND version = ?", barberID, expectedVersion).
		Updates(map[string]any{
			"rating":        rating,
			"total_ratings": totalRatings,
			"version":       expectedVersion + 1,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*Store)(nil)
