// Package sqlite opens GORM over the pure-Go SQLite driver.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a SQLite-backed *gorm.DB. The path ":memory:" gives a
// throwaway in-process database, which the test helpers rely on.
func Open(path string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	return gorm.Open(sqlite.Open(path), cfg)
}
