package billing

import (
	"testing"
	"time"

	"academy_backend/internal/models"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func freshCoupon() *models.Coupon {
	return &models.Coupon{
		Code:         "WELCOME10",
		DiscountType: models.DiscountTypePercentage,
		Value:        decimal.NewFromInt(10),
		StartDate:    date(2025, time.January, 1),
		ExpiryDate:   date(2025, time.December, 31),
		IsActive:     true,
	}
}

func TestValidateCoupon_Ok(t *testing.T) {
	assert.NoError(t, ValidateCoupon(freshCoupon(), date(2025, time.June, 1)))
}

func TestValidateCoupon_RejectionOrder(t *testing.T) {
	now := date(2025, time.June, 1)

	assert.ErrorIs(t, ValidateCoupon(nil, now), apperrors.ErrCouponNotFound)

	c := freshCoupon()
	c.Voided = true
	c.IsActive = false
	// Voided wins over inactive
	assert.ErrorIs(t, ValidateCoupon(c, now), apperrors.ErrCouponVoided)

	c = freshCoupon()
	c.IsActive = false
	assert.ErrorIs(t, ValidateCoupon(c, now), apperrors.ErrCouponInactive)

	c = freshCoupon()
	assert.ErrorIs(t, ValidateCoupon(c, date(2024, time.June, 1)), apperrors.ErrCouponNotStarted)
	assert.ErrorIs(t, ValidateCoupon(c, date(2026, time.June, 1)), apperrors.ErrCouponExpired)

	limit := int64(5)
	c = freshCoupon()
	c.UsageLimit = &limit
	c.TimesUsed = 5
	assert.ErrorIs(t, ValidateCoupon(c, now), apperrors.ErrCouponExhausted)
}

func TestValidateCoupon_UnlimitedUsage(t *testing.T) {
	c := freshCoupon()
	c.TimesUsed = 100000
	assert.NoError(t, ValidateCoupon(c, date(2025, time.June, 1)))
}

func TestCouponAppliesTo(t *testing.T) {
	c := freshCoupon()
	assert.True(t, CouponAppliesTo(c, models.BillingIntervalMonthly))

	c.Interval = models.BillingIntervalMonthly
	assert.True(t, CouponAppliesTo(c, models.BillingIntervalMonthly))
	assert.False(t, CouponAppliesTo(c, models.BillingIntervalYearly))
}

func TestApplyDiscount_Percentage(t *testing.T) {
	c := freshCoupon()
	got := ApplyDiscount(decimal.NewFromInt(3000), c)
	assert.True(t, got.Equal(decimal.NewFromInt(2700)), "got %s", got)
}

func TestApplyDiscount_FixedAmount(t *testing.T) {
	c := freshCoupon()
	c.DiscountType = models.DiscountTypeFixedAmount
	c.Value = decimal.NewFromInt(500)

	got := ApplyDiscount(decimal.NewFromInt(3000), c)
	assert.True(t, got.Equal(decimal.NewFromInt(2500)), "got %s", got)
}

func TestApplyDiscount_NeverNegative(t *testing.T) {
	c := freshCoupon()
	c.DiscountType = models.DiscountTypeFixedAmount
	c.Value = decimal.NewFromInt(5000)

	got := ApplyDiscount(decimal.NewFromInt(3000), c)
	assert.True(t, got.IsZero(), "got %s", got)
}
