package models

import "time"

// Queue is the walk-in line of a single barber.
type Queue struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex;not null" json:"barber_id"`

	CurrentlyServing   *uint  `json:"currently_serving"`
	AverageServiceTime int    `gorm:"not null;default:30" json:"average_service_time"`
	TotalServedToday   int    `gorm:"not null;default:0" json:"total_served_today"`
	LastResetDate      string `gorm:"size:10" json:"last_reset_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueueEntry is one walk-in booking's place in a queue. Among active
// entries (waiting, notified, in_progress) positions are exactly 1..N.
type QueueEntry struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	QueueID   uint `gorm:"not null;index:idx_queue_entries_active_position,unique,where:status <> 'completed' AND status <> 'no_show'" json:"queue_id"`
	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	Position int    `gorm:"not null;index:idx_queue_entries_active_position,unique,where:status <> 'completed' AND status <> 'no_show'" json:"position"`
	Status   string `gorm:"size:20;not null;default:'waiting'" json:"status"`

	EstimatedWaitMinutes int `gorm:"not null;default:0" json:"estimated_wait_minutes"`

	JoinedAt    time.Time  `json:"joined_at"`
	NotifiedAt  *time.Time `json:"notified_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
