package services

import (
	"strings"
	"time"

	"academy_backend/internal/billing"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponService interface {
	Create(db *gorm.DB, req *models.CreateCouponRequest) (*models.Coupon, error)
	Update(db *gorm.DB, id string, req *models.UpdateCouponRequest) (*models.Coupon, error)
	Void(db *gorm.DB, id string) error
	List(db *gorm.DB) ([]models.Coupon, error)

	// Validate resolves a code and checks eligibility at now.
	// It never touches times_used.
	Validate(db *gorm.DB, code string, now time.Time) (*models.Coupon, error)

	// Redeem re-validates inside the caller's transaction and then
	// counts one use. Call only when a discount was actually granted.
	Redeem(tx *gorm.DB, couponID string, now time.Time) error
}

type CouponServiceImpl struct {
	couponRepo repositories.CouponRepository
}

func NewCouponService(couponRepo repositories.CouponRepository) CouponService {
	return &CouponServiceImpl{couponRepo: couponRepo}
}

func (s *CouponServiceImpl) Create(db *gorm.DB, req *models.CreateCouponRequest) (*models.Coupon, error) {
	if !req.Value.IsPositive() {
		return nil, apperrors.NewBadRequestError("Discount value must be greater than zero")
	}
	if req.DiscountType == models.DiscountTypePercentage &&
		req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperrors.NewBadRequestError("Percentage discount cannot exceed 100")
	}
	if !req.ExpiryDate.After(req.StartDate) {
		return nil, apperrors.NewBadRequestError("Expiry date must be after start date")
	}
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		return nil, apperrors.NewBadRequestError("Usage limit must be at least 1")
	}

	coupon := &models.Coupon{
		Code:         strings.ToUpper(req.Code),
		DiscountType: req.DiscountType,
		Value:        req.Value,
		Interval:     req.Interval,
		StartDate:    req.StartDate,
		ExpiryDate:   req.ExpiryDate,
		UsageLimit:   req.UsageLimit,
		IsActive:     true,
	}

	if err := s.couponRepo.Create(db, coupon); err != nil {
		if apperrors.Is(err, repositories.ErrCouponAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err, "Coupon code")
		}
		return nil, apperrors.InternalError(err)
	}
	return coupon, nil
}

func (s *CouponServiceImpl) Update(db *gorm.DB, id string, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCouponError(err)
	}
	if coupon.Voided {
		return nil, apperrors.ErrCouponVoided
	}

	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ExpiryDate != nil {
		if !req.ExpiryDate.After(coupon.StartDate) {
			return nil, apperrors.NewBadRequestError("Expiry date must be after start date")
		}
		coupon.ExpiryDate = *req.ExpiryDate
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < coupon.TimesUsed {
			return nil, apperrors.NewBadRequestError("Usage limit cannot be below the recorded usage count")
		}
		coupon.UsageLimit = req.UsageLimit
	}

	if err := s.couponRepo.Update(db, coupon); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return coupon, nil
}

// Void permanently retires a coupon. Voiding is one-way.
func (s *CouponServiceImpl) Void(db *gorm.DB, id string) error {
	coupon, err := s.couponRepo.FindByID(db, id)
	if err != nil {
		return handleCouponError(err)
	}

	coupon.Voided = true
	coupon.IsActive = false

	if err := s.couponRepo.Update(db, coupon); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *CouponServiceImpl) List(db *gorm.DB) ([]models.Coupon, error) {
	coupons, err := s.couponRepo.List(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return coupons, nil
}

func (s *CouponServiceImpl) Validate(db *gorm.DB, code string, now time.Time) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(db, code)
	if err != nil {
		return nil, handleCouponError(err)
	}
	if err := billing.ValidateCoupon(coupon, now); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponServiceImpl) Redeem(tx *gorm.DB, couponID string, now time.Time) error {
	coupon, err := s.couponRepo.FindByID(tx, couponID)
	if err != nil {
		return handleCouponError(err)
	}
	if err := billing.ValidateCoupon(coupon, now); err != nil {
		return err
	}
	if err := s.couponRepo.IncrementUsage(tx, coupon.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func handleCouponError(err error) error {
	if apperrors.Is(err, repositories.ErrCouponNotFound) {
		return apperrors.ErrCouponNotFound
	}
	return apperrors.InternalError(err)
}
