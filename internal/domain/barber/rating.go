package barber

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

// FoldRating adds one rating to a running average:
// new = (old*total + rating) / (total+1).
func FoldRating(oldRating float64, totalRatings, rating int) (float64, int, error) {
	if rating < 1 || rating > 5 {
		return 0, 0, httperr.ErrValidation
	}
	if totalRatings < 0 {
		totalRatings = 0
	}
	next := totalRatings + 1
	return (oldRating*float64(totalRatings) + float64(rating)) / float64(next), next, nil
}
