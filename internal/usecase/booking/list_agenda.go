package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type ListAgenda struct {
	base
}

func NewListAgenda(repo domain.Repository, opts ...Option) *ListAgenda {
	return &ListAgenda{base: newBase(repo, nil, opts)}
}

// Execute lists the barber's bookings starting on day (YYYY-MM-DD, shop
// timezone) ordered by start time.
func (uc *ListAgenda) Execute(ctx context.Context, barberID uint, day string) ([]models.Booking, error) {
	start, err := time.ParseInLocation("2006-01-02", day, uc.loc)
	if err != nil {
		return nil, httperr.ErrValidation
	}

	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	return uc.repo.ListBookingsForPeriod(ctx, barberID, start, start.AddDate(0, 0, 1))
}
