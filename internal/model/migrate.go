package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables of every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Store{},
		&Account{},
		&Product{},
		&RawMaterial{},
		&Order{},
		&OrderItem{},
		&Transaction{},
	)
}
