package repositories

import (
	"errors"
	"time"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(tx *gorm.DB, sub *models.AthleteSubscription) error
	FindByID(tx *gorm.DB, id string) (*models.AthleteSubscription, error)
	FindActiveByAthlete(tx *gorm.DB, athleteID string) (*models.AthleteSubscription, error)
	ListByAthlete(tx *gorm.DB, athleteID string) ([]models.AthleteSubscription, error)
	Update(tx *gorm.DB, sub *models.AthleteSubscription) error
	DeactivateActiveForAthlete(tx *gorm.DB, athleteID, updatedBy string, now time.Time) (int64, error)
	FindExpiredActive(tx *gorm.DB, now time.Time) ([]models.AthleteSubscription, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) Create(tx *gorm.DB, sub *models.AthleteSubscription) error {
	return tx.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.AthleteSubscription, error) {
	var sub models.AthleteSubscription
	err := tx.Preload("Plan").Preload("Coupon").First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindActiveByAthlete(tx *gorm.DB, athleteID string) (*models.AthleteSubscription, error) {
	var sub models.AthleteSubscription
	err := tx.Preload("Plan").Preload("Coupon").
		Where("athlete_id = ? AND status = ?", athleteID, models.SubscriptionStatusActive).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) ListByAthlete(tx *gorm.DB, athleteID string) ([]models.AthleteSubscription, error) {
	var subs []models.AthleteSubscription
	err := tx.Preload("Plan").
		Where("athlete_id = ?", athleteID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) Update(tx *gorm.DB, sub *models.AthleteSubscription) error {
	return tx.Save(sub).Error
}

// DeactivateActiveForAthlete retires every ACTIVE row of the athlete
// in one statement, returning how many rows moved.
func (r *SubscriptionRepositoryImpl) DeactivateActiveForAthlete(tx *gorm.DB, athleteID, updatedBy string, now time.Time) (int64, error) {
	result := tx.Model(&models.AthleteSubscription{}).
		Where("athlete_id = ? AND status = ?", athleteID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":               models.SubscriptionStatusInactive,
			"end_date":             now,
			"auto_renew":           false,
			"cancel_at_period_end": true,
			"updated_by":           updatedBy,
		})
	return result.RowsAffected, result.Error
}

// FindExpiredActive returns ACTIVE subscriptions whose period ended
// before now and which do not auto-renew. Used by the sweeper.
func (r *SubscriptionRepositoryImpl) FindExpiredActive(tx *gorm.DB, now time.Time) ([]models.AthleteSubscription, error) {
	var subs []models.AthleteSubscription
	err := tx.Where("status = ? AND auto_renew = ? AND current_period_end < ?",
		models.SubscriptionStatusActive, false, now).
		Find(&subs).Error
	return subs, err
}
