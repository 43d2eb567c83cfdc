package billing

import (
	"time"

	"academy_backend/internal/models"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// ValidateCoupon checks coupon eligibility at the given instant.
// Checks run in a fixed order: voided, inactive, window, usage limit.
// Validation never increments times_used; that happens only when the
// coupon is actually redeemed against a discount-bearing event.
func ValidateCoupon(coupon *models.Coupon, now time.Time) error {
	switch {
	case coupon == nil:
		return apperrors.ErrCouponNotFound
	case coupon.Voided:
		return apperrors.ErrCouponVoided
	case !coupon.IsActive:
		return apperrors.ErrCouponInactive
	case now.Before(coupon.StartDate):
		return apperrors.ErrCouponNotStarted
	case now.After(coupon.ExpiryDate):
		return apperrors.ErrCouponExpired
	case coupon.UsageLimit != nil && coupon.TimesUsed >= *coupon.UsageLimit:
		return apperrors.ErrCouponExhausted
	}
	return nil
}

// CouponAppliesTo reports whether the coupon is restricted to a plan
// interval it does not match. An empty coupon interval matches any.
func CouponAppliesTo(coupon *models.Coupon, interval models.BillingInterval) bool {
	return coupon.Interval == "" || coupon.Interval == interval
}

// ApplyDiscount returns the amount after the coupon discount,
// floored at zero. Fixed discounts subtract; percentage discounts
// take value as a percent of the amount.
func ApplyDiscount(amount decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	var discounted decimal.Decimal

	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		hundred := decimal.NewFromInt(100)
		discounted = amount.Sub(amount.Mul(coupon.Value).Div(hundred)).Round(2)
	case models.DiscountTypeFixedAmount:
		discounted = amount.Sub(coupon.Value)
	default:
		return amount
	}

	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}
