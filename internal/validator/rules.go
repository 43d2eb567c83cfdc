package validator

import (
	"log"
	"regexp"

	"academy_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Codes are normalized to uppercase before storage and lookup, so
// the rule accepts either case.
var couponCodeRe = regexp.MustCompile(`(?i)^[A-Z0-9-]{3,32}$`)

// registerCustomRules installs the billing-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Startup-critical: a DTO referencing an unknown rule
			// would silently pass validation otherwise.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("billing_interval", validateBillingInterval)
	mustRegister("payment_method", validatePaymentMethod)
	mustRegister("discount_type", validateDiscountType)
	mustRegister("coupon_code", validateCouponCode)
	mustRegister("invoice_type", validateInvoiceType)
}

// Empty values pass; combine with 'required' when the field is mandatory.

func validateBillingInterval(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.BillingInterval(value).Valid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PaymentMethod(value).Valid()
}

func validateDiscountType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.DiscountType(value) {
	case models.DiscountTypePercentage, models.DiscountTypeFixedAmount:
		return true
	default:
		return false
	}
}

func validateCouponCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return couponCodeRe.MatchString(value)
}

func validateInvoiceType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.InvoiceType(value) {
	case models.InvoiceTypeSubscription, models.InvoiceTypeManual,
		models.InvoiceTypeLateFee, models.InvoiceTypeItemPurchase:
		return true
	default:
		return false
	}
}
