package repositories

import (
	"errors"
	"time"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAthleteNotFound = errors.New("athlete not found")

type AthleteFilter struct {
	Status   models.AthleteStatus
	Search   string
	Page     int
	PageSize int
}

type AthleteRepository interface {
	Create(tx *gorm.DB, athlete *models.Athlete) error
	FindByID(tx *gorm.DB, id string) (*models.Athlete, error)
	FindByNumber(tx *gorm.DB, number string) (*models.Athlete, error)
	FindByIDs(tx *gorm.DB, ids []string) ([]models.Athlete, error)
	List(tx *gorm.DB, filter AthleteFilter) ([]models.Athlete, int64, error)
	Update(tx *gorm.DB, athlete *models.Athlete) error
	UpdateStatus(tx *gorm.DB, id string, status models.AthleteStatus) error
	UpdateNextBillingDate(tx *gorm.DB, id string, next *time.Time) error
}

type AthleteRepositoryImpl struct{}

func NewAthleteRepository() AthleteRepository {
	return &AthleteRepositoryImpl{}
}

func (r *AthleteRepositoryImpl) Create(tx *gorm.DB, athlete *models.Athlete) error {
	return tx.Create(athlete).Error
}

func (r *AthleteRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.Athlete, error) {
	var athlete models.Athlete
	err := tx.First(&athlete, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

func (r *AthleteRepositoryImpl) FindByNumber(tx *gorm.DB, number string) (*models.Athlete, error) {
	var athlete models.Athlete
	err := tx.First(&athlete, "athlete_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

func (r *AthleteRepositoryImpl) FindByIDs(tx *gorm.DB, ids []string) ([]models.Athlete, error) {
	var athletes []models.Athlete
	err := tx.Where("id IN ?", ids).Find(&athletes).Error
	return athletes, err
}

func (r *AthleteRepositoryImpl) List(tx *gorm.DB, filter AthleteFilter) ([]models.Athlete, int64, error) {
	query := tx.Model(&models.Athlete{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR athlete_number LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var athletes []models.Athlete
	err := query.Order("athlete_number ASC").Find(&athletes).Error
	return athletes, total, err
}

func (r *AthleteRepositoryImpl) Update(tx *gorm.DB, athlete *models.Athlete) error {
	return tx.Save(athlete).Error
}

func (r *AthleteRepositoryImpl) UpdateStatus(tx *gorm.DB, id string, status models.AthleteStatus) error {
	return tx.Model(&models.Athlete{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *AthleteRepositoryImpl) UpdateNextBillingDate(tx *gorm.DB, id string, next *time.Time) error {
	return tx.Model(&models.Athlete{}).Where("id = ?", id).
		Update("next_billing_date", next).Error
}
