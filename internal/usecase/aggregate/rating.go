// Package aggregate keeps the denormalized counters consistent: the
// barber's rating average under optimistic locking, and the queue's daily
// counters under the queue row lock held by the caller.
package aggregate

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain/barber"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/retry"
)

type RatingUpdater struct {
	repo   barber.Repository
	policy retry.Policy
	log    *logger.Logger
}

type Option func(*RatingUpdater)

func WithLogger(l *logger.Logger) Option {
	return func(u *RatingUpdater) { u.log = l }
}

// WithMaxAttempts caps how many compare-and-swap rounds are tried.
func WithMaxAttempts(n int) Option {
	return func(u *RatingUpdater) {
		if n > 0 {
			u.policy.MaxAttempts = n
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(u *RatingUpdater) { u.policy = p }
}

func NewRatingUpdater(repo barber.Repository, opts ...Option) *RatingUpdater {
	u := &RatingUpdater{
		repo:   repo,
		policy: retry.Default(),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Execute folds rating into the barber's running average. Each attempt
// re-reads the barber and writes conditioned on the version it read. When
// every attempt loses the race it fails with httperr.ErrConcurrentUpdate and
// nothing is written.
func (u *RatingUpdater) Execute(
	ctx context.Context,
	barberID uint,
	rating int,
) (*models.Barber, error) {

	var updated *models.Barber

	policy := u.policy
	policy.OnRetry = func(err error, wait time.Duration) {
		u.log.Debug("rating update retry",
			"barber_id", barberID,
			"wait", wait,
			"error", err,
		)
	}

	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		b, err := u.repo.GetBarber(ctx, barberID)
		if err != nil {
			return err
		}

		avg, total, err := barber.FoldRating(b.Rating, b.TotalRatings, rating)
		if err != nil {
			return err
		}

		ok, err := u.repo.UpdateBarberRatingIfVersion(ctx, barberID, avg, total, b.Version)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrConcurrentUpdate
		}

		b.Rating = avg
		b.TotalRatings = total
		b.Version++
		updated = b
		return nil
	})
	if err != nil {
		if errors.Is(err, httperr.ErrConcurrentUpdate) {
			u.log.Warn("rating update gave up", "barber_id", barberID, "attempts", u.policy.MaxAttempts)
		}
		return nil, err
	}

	return updated, nil
}
