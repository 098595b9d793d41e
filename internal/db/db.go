package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func NewDB(cfg *config.Config, log *logger.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", "error", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", "error", err)
	}

	if err := db.Exec(`
        UPDATE queues
        SET average_service_time = ?
        WHERE average_service_time IS NULL OR average_service_time <= 0
    `, cfg.DefaultAvgServiceMinutes).Error; err != nil {
		log.Warn("failed to backfill queue averages", "error", err)
	}

	return db
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Barber{},
		&models.Customer{},
		&models.Service{},
		&models.Booking{},
		&models.BookingService{},
		&models.Queue{},
		&models.QueueEntry{},
		&models.AuditLog{},
	)
}
