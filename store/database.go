// Package store persists the recall tables with GORM.
package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"moul.io/zapgorm2"

	"github.com/icco/recall"
)

// Config selects the database. DatabaseURL wins over SQLitePath.
type Config struct {
	DatabaseURL string
	SQLitePath  string

	// Logger receives GORM's statement log. Nil silences it.
	Logger *zap.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case cfg.DatabaseURL != "":
		dialector = postgres.Open(cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("DATABASE_URL and SQLITE_PATH are both empty")
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.Logger != nil {
		gormLogger := zapgorm2.New(cfg.Logger)
		gormLogger.SlowThreshold = 200 * time.Millisecond
		gormLogger.IgnoreRecordNotFoundError = true
		config.Logger = gormLogger.LogMode(logger.Warn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		// SQLite allows a single writer; pooled connections to :memory: would
		// each see an empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return db, nil
}

// AutoMigrate runs the database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&recall.User{}, &recall.Game{}, &recall.Session{}, &recall.Round{}, &recall.Performance{})
}
