package database

import (
	"gorm.io/gorm"

	"godown-app/models"
)

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Godown{},
		&models.Stock{},
		&models.StockHistory{},
		&models.Product{},
		&models.Brand{},
		&models.SequenceCounter{},
		&models.Booking{},
		&models.DeliveryChallan{},
		&models.Billing{},
		&models.StateCode{},
		&models.Payment{},
		&models.DispatchLog{},
		&models.Admin{},
		&models.AdminBank{},
	)
}
