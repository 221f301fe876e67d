// Package database opens the document store (SQLite or PostgreSQL through
// gorm) and hosts the bookmark and reflection repositories.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Config contains database connection options.
type Config struct {
	Driver string // "sqlite" (default) | "postgres"
	Path   string // SQLite database path when Driver == sqlite
	DSN    string // Optional DSN override, required for postgres
	Debug  bool   // log every statement
}

// Open initialises a gorm.DB using the provided configuration.
// Timestamps are always written in UTC.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	gcfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if cfg.Debug {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg, gcfg)
	case "postgres", "postgresql":
		return openPostgres(cfg, gcfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates missing tables and indexes. It never drops anything.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	if err := db.AutoMigrate(&domain.Bookmark{}, &domain.Reflection{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
