package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted type.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Character{},
		&Encounter{},
		&AuditLog{},
	)
}
