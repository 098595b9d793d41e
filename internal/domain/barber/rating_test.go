package barber

import (
	"errors"
	"math"
	"testing"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

func TestFoldRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		old       float64
		total     int
		rating    int
		wantAvg   float64
		wantTotal int
	}{
		{"first rating", 0, 0, 4, 4, 1},
		{"two ratings", 4, 1, 5, 4.5, 2},
		{"sequence 5 4 3 5", 4, 3, 5, 4.25, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, total, err := FoldRating(tt.old, tt.total, tt.rating)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if math.Abs(avg-tt.wantAvg) > 1e-9 {
				t.Fatalf("expected avg %v, got %v", tt.wantAvg, avg)
			}
			if total != tt.wantTotal {
				t.Fatalf("expected total %d, got %d", tt.wantTotal, total)
			}
		})
	}
}

func TestFoldRatingKeepsPrecision(t *testing.T) {
	t.Parallel()

	avg, total := 0.0, 0
	for _, r := range []int{5, 4, 4} {
		var err error
		avg, total, err = FoldRating(avg, total, r)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if math.Abs(avg-13.0/3.0) > 1e-9 {
		t.Fatalf("expected exact mean 4.333..., got %v", avg)
	}
}

func TestFoldRatingRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, r := range []int{0, 6, -1} {
		if _, _, err := FoldRating(3, 2, r); !errors.Is(err, httperr.ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", r, err)
		}
	}
}
