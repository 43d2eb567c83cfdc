package database

import (
	"academy_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every billing entity.
// Order matters: referenced tables migrate before their dependents.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Athlete{},
		&models.AthleteSequence{},
		&models.DocumentSequence{},
		&models.SubscriptionPlan{},
		&models.Coupon{},
		&models.AthleteSubscription{},
		&models.Invoice{},
		&models.Payment{},
	)
}
