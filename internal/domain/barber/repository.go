package barber

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetBarber(ctx context.Context, barberID uint) (*models.Barber, error)

	// UpdateBarberRatingIfVersion stores the new rating aggregate only if the
	// barber's version is still expectedVersion, bumping it by one.
	UpdateBarberRatingIfVersion(
		ctx context.Context,
		barberID uint,
		rating float64,
		totalRatings int,
		expectedVersion int,
	) (bool, error)
}
