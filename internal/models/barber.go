package models

import (
	"encoding/json"
	"math"
	"time"
)

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	PasswordHash string `gorm:"size:255;not null" json:"-"`

	IsAvailable bool `gorm:"default:true" json:"is_available"`
	Active      bool `gorm:"default:true" json:"active"`

	// Working window as HH:MM in the shop timezone. Empty means unrestricted.
	WorkStart string `gorm:"size:5" json:"work_start"`
	WorkEnd   string `gorm:"size:5" json:"work_end"`

	// Rating is kept at full precision; JSON shows it with two decimals.
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	TotalRatings int     `gorm:"not null;default:0" json:"total_ratings"`
	Version      int     `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoundRating is a rating as shown to clients, two decimals.
func RoundRating(r float64) float64 {
	return math.Round(r*100) / 100
}

func (b Barber) MarshalJSON() ([]byte, error) {
	type row Barber
	out := row(b)
	out.Rating = RoundRating(b.Rating)
	return json.Marshal(out)
}
