package notify

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// AuditSink keeps a durable AuditLog row for every event.
type AuditSink struct {
	db *gorm.DB
}

func NewAuditSink(db *gorm.DB) *AuditSink {
	return &AuditSink{db: db}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Deliver(ctx context.Context, channel string, ev Event) error {
	var metaJSON string
	if b, err := json.Marshal(ev); err == nil {
		metaJSON = string(b)
	}

	row := models.AuditLog{
		EventID:   ev.ID,
		Channel:   channel,
		Action:    string(ev.Type),
		Metadata:  metaJSON,
		CreatedAt: ev.OccurredAt,
	}
	if ev.BarberID != 0 {
		id := ev.BarberID
		row.BarberID = &id
	}

	return s.db.WithContext(ctx).Create(&row).Error
}
