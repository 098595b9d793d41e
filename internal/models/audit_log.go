package models

import "time"

// AuditLog keeps a durable copy of every event handed to the notifier.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EventID  string `gorm:"size:36;uniqueIndex" json:"event_id"`
	Channel  string `gorm:"size:50;not null;index" json:"channel"`
	Action   string `gorm:"size:50;not null" json:"action"`
	BarberID *uint  `json:"barber_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
