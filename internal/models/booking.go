package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`
	BarberID   uint `gorm:"index:idx_bookings_barber_time;not null" json:"barber_id"`

	ScheduledTime time.Time `gorm:"index:idx_bookings_barber_time;not null" json:"scheduled_time"`
	TotalDuration int       `gorm:"not null" json:"total_duration"`
	TotalAmount   float64   `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	Status  string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Version int    `gorm:"not null;default:1" json:"version"`

	IsWalkIn             bool `gorm:"not null;default:false" json:"is_walk_in"`
	QueuePosition        *int `json:"queue_position"`
	EstimatedWaitMinutes *int `json:"estimated_wait_minutes"`

	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
	CancelledAt     *time.Time `json:"cancelled_at"`

	Rating     *int       `json:"rating"`
	Review     *string    `gorm:"type:text" json:"review"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	Notes string `gorm:"size:255" json:"notes"`

	Services []BookingService `gorm:"constraint:OnDelete:CASCADE;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndTime is the exclusive end of the booked interval.
func (b *Booking) EndTime() time.Time {
	return b.ScheduledTime.Add(time.Duration(b.TotalDuration) * time.Minute)
}

// BookingService is the priced join between a booking and a service. Price
// and duration are snapshots taken when the booking was made.
type BookingService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"uniqueIndex:idx_booking_service;not null" json:"booking_id"`
	ServiceID uint `gorm:"uniqueIndex:idx_booking_service;not null" json:"service_id"`

	Price       float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMin int     `gorm:"not null" json:"duration_min"`

	CreatedAt time.Time `json:"created_at"`
}
