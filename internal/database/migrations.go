package database

import (
	"log"
	"os"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.Car{},
		&models.Booking{},
		&models.OTPCode{},
		&models.User{},
	)
	if err != nil {
		return err
	}

	// Status check constraints
	if db.Migrator().HasTable(&models.Car{}) {
		db.Exec(`ALTER TABLE cars DROP CONSTRAINT IF EXISTS cars_status_check`)
		db.Exec(`ALTER TABLE cars ADD CONSTRAINT cars_status_check CHECK (status IN ('available', 'rented'))`)
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_payment_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_payment_status_check CHECK (payment_status IN ('pending', 'paid', 'failed'))`)
	}

	return seedAdminUser(db)
}

// seedAdminUser creates the ops account from env on first boot.
func seedAdminUser(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Email:    models.NormalizeEmail(adminEmail),
		FullName: "Operations",
		Password: adminPassword,
		Role:     models.UserRoleAdmin,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", admin.Email)
	return nil
}
