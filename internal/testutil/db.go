// Package testutil connects integration tests to a throwaway Postgres.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-queue/internal/db"
)

// testLockKey serializes test packages that share one database.
const testLockKey = 727001

// NewTestDB opens TEST_DATABASE_URL, migrates it and empties every table.
// The test is skipped when the variable is unset or the server is down.
// An advisory lock held for the test's lifetime keeps parallel packages
// from truncating each other's data.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Skipf("postgres unreachable: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		t.Skipf("postgres unreachable: %v", err)
	}

	lockConn, err := sqlDB.Conn(context.Background())
	if err != nil {
		t.Fatalf("reserve lock connection: %v", err)
	}
	if _, err := lockConn.ExecContext(context.Background(), "SELECT pg_advisory_lock($1)", testLockKey); err != nil {
		t.Fatalf("acquire test lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = lockConn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", testLockKey)
		_ = lockConn.Close()
		_ = sqlDB.Close()
	})

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := db.Exec(`
        TRUNCATE audit_logs, queue_entries, queues, booking_services,
                 bookings, services, customers, barbers
        RESTART IDENTITY CASCADE
    `).Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return db
}
