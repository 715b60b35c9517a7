package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/data/db"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

var memSeq atomic.Int64

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// DB opens a fresh, migrated in-memory SQLite database for one test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:valuepm_test_%d?mode=memory&cache=shared", memSeq.Add(1))
	return open(tb, db.Config{Driver: db.DriverSQLite, DSN: dsn})
}

func open(tb testing.TB, cfg db.Config) *gorm.DB {
	tb.Helper()
	svc, err := db.Open(cfg, logger.NewNop())
	if err != nil {
		tb.Fatalf("open %s: %v", cfg.Driver, err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("automigrate: %v", err)
	}
	return svc.DB()
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
