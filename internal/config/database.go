package config

import (
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"carhaul_tracker/internal/logger"
)

// OpenDB opens the GORM connection described by cfg. The pgx driver is used
// unless SQLDriver names another registered database/sql driver.
func OpenDB(cfg DBConfig) (*gorm.DB, error) {
	dialector := postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	})
	if cfg.SQLDriver != "" && cfg.SQLDriver != "pgx" {
		dialector = postgres.New(postgres.Config{
			DriverName: cfg.SQLDriver,
			DSN:        cfg.DSN(),
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.GormLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
