package repositories

import (
	"errors"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("subscription plan not found")

type PlanRepository interface {
	Create(tx *gorm.DB, plan *models.SubscriptionPlan) error
	FindByID(tx *gorm.DB, id string) (*models.SubscriptionPlan, error)
	List(tx *gorm.DB, includeArchived bool) ([]models.SubscriptionPlan, error)
	Update(tx *gorm.DB, plan *models.SubscriptionPlan) error
	Archive(tx *gorm.DB, id string) error
}

type PlanRepositoryImpl struct{}

func NewPlanRepository() PlanRepository {
	return &PlanRepositoryImpl{}
}

func (r *PlanRepositoryImpl) Create(tx *gorm.DB, plan *models.SubscriptionPlan) error {
	return tx.Create(plan).Error
}

func (r *PlanRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := tx.First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) List(tx *gorm.DB, includeArchived bool) ([]models.SubscriptionPlan, error) {
	query := tx.Model(&models.SubscriptionPlan{})
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var plans []models.SubscriptionPlan
	err := query.Order("amount ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepositoryImpl) Update(tx *gorm.DB, plan *models.SubscriptionPlan) error {
	return tx.Save(plan).Error
}

func (r *PlanRepositoryImpl) Archive(tx *gorm.DB, id string) error {
	result := tx.Model(&models.SubscriptionPlan{}).Where("id = ?", id).
		Updates(map[string]interface{}{"archived": true, "is_active": false})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
