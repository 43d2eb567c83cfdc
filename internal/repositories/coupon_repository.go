package repositories

import (
	"errors"
	"strings"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyExists = errors.New("coupon already exists")
)

type CouponRepository interface {
	Create(tx *gorm.DB, coupon *models.Coupon) error
	FindByID(tx *gorm.DB, id string) (*models.Coupon, error)
	FindByCode(tx *gorm.DB, code string) (*models.Coupon, error)
	List(tx *gorm.DB) ([]models.Coupon, error)
	Update(tx *gorm.DB, coupon *models.Coupon) error
	IncrementUsage(tx *gorm.DB, id string) error
}

type CouponRepositoryImpl struct{}

func NewCouponRepository() CouponRepository {
	return &CouponRepositoryImpl{}
}

func (r *CouponRepositoryImpl) Create(tx *gorm.DB, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	err := tx.Create(coupon).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCouponAlreadyExists
	}
	return err
}

func (r *CouponRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := tx.First(&coupon, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode is case-insensitive: codes are stored uppercase and the
// lookup normalizes before comparing.
func (r *CouponRepositoryImpl) FindByCode(tx *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := tx.First(&coupon, "code = ?", strings.ToUpper(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepositoryImpl) List(tx *gorm.DB) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := tx.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *CouponRepositoryImpl) Update(tx *gorm.DB, coupon *models.Coupon) error {
	return tx.Save(coupon).Error
}

// IncrementUsage bumps times_used atomically. Validation never calls
// this; only an actual redemption does.
func (r *CouponRepositoryImpl) IncrementUsage(tx *gorm.DB, id string) error {
	result := tx.Model(&models.Coupon{}).Where("id = ?", id).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}
