package booking

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/booking"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/notify"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/aggregate"
)

type SubmitReviewInput struct {
	BookingID  uint
	CustomerID uint
	Rating     int
	Review     string
}

type SubmitReview struct {
	base
	ratings *aggregate.RatingUpdater
}

func NewSubmitReview(
	repo domain.Repository,
	ratings *aggregate.RatingUpdater,
	notifier notify.Notifier,
	opts ...Option,
) *SubmitReview {
	return &SubmitReview{
		base:    newBase(repo, notifier, opts),
		ratings: ratings,
	}
}

// Execute records the review and folds the rating into the barber's
// average in one transaction. If the average cannot be updated the review
// is not stored either.
func (uc *SubmitReview) Execute(ctx context.Context, in SubmitReviewInput) (*models.Booking, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, httperr.ErrValidation
	}

	var b *models.Booking

	err := uc.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.repo.GetBookingForUpdate(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if !domain.CanAct(b, domain.CustomerActor(in.CustomerID)) {
			return httperr.ErrForbidden
		}

		if err := domain.Review(b, in.Rating, in.Review, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.save(ctx, b); err != nil {
			return err
		}

		if _, err := uc.ratings.Execute(ctx, b.BarberID, in.Rating); err != nil {
			return err
		}

		ev := uc.event(notify.BookingReviewed, b)
		ev.Message = in.Review
		uc.publish(ctx, notify.BarberChannel(b.BarberID), ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("booking reviewed", "booking_id", b.ID, "barber_id", b.BarberID, "rating", in.Rating)
	return b, nil
}
