// Package db selects the storage backend from configuration. SQLite is
// the default for development and tests, MySQL for deployments.
package db

import (
	"fmt"

	"github.com/kuraoka/signalquest/config"
	dbmysql "github.com/kuraoka/signalquest/db/mysql"
	dbsqlite "github.com/kuraoka/signalquest/db/sqlite"
	"gorm.io/gorm"
)

// Supported database modes.
const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open connects to the configured backend and returns a ready *gorm.DB.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	}
	return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
}
