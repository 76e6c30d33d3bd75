package entity

import "gorm.io/gorm"

// AutoMigrate migrates all VSM tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// identity
		&User{},
		&Customer{},
		&Vehicle{},

		// master data
		&ServiceCategory{},
		&Part{},

		// jobs
		&ServiceRequest{},
		&ServiceStatusHistory{},
		&PartUsage{},
		&StockMovement{},

		// billing
		&Bill{},

		&Notification{},
	)
}
