package database

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config, gcfg *gorm.Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres configuration requires a DSN")
	}
	return gorm.Open(postgres.Open(cfg.DSN), gcfg)
}
