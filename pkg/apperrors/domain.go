package apperrors

import (
	"fmt"
	"net/http"
)

// Factories and predefined errors for the billing domain. Messages
// are user-facing: the UI displays them verbatim.

// --- Factories (wrap repository errors) ---

// ErrNotFound converts a repository not-found (gorm.ErrRecordNotFound
// and friends) into a 404 AppError.
func ErrNotFound(err error, what string) *AppError {
	return Wrap(err, CodeNotFound, "resource", what+" not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error, what string) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", what+" already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Billing ---

// ErrOverpayment reports the exact remaining balance, as entered
// amounts routinely come from paper records and need correcting.
func ErrOverpayment(remaining string) *AppError {
	return New(
		CodeInvalidOperation,
		"payment",
		fmt.Sprintf("Payment exceeds the outstanding balance; remaining balance is %s", remaining),
		http.StatusBadRequest,
	)
}

var ErrNonPositivePayment = New(
	CodeValidationFailed,
	"payment",
	"Payment amount must be greater than zero",
	http.StatusBadRequest,
)

var ErrInvoiceNotPayable = New(
	CodeInvalidStatus,
	"payment",
	"Invoice is not payable in its current status",
	http.StatusConflict,
)

var ErrDuplicateActiveSubscription = New(
	CodeConflict,
	"subscription",
	"Athlete already has an active subscription",
	http.StatusConflict,
)

var ErrSubscriptionNotActive = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription is not active",
	http.StatusConflict,
)

var ErrInvoiceOwnership = New(
	CodeInvalidOperation,
	"payment",
	"Invoice does not belong to this athlete",
	http.StatusBadRequest,
)

var ErrCouponAlreadyAttached = New(
	CodeConflict,
	"coupon",
	"A different coupon is already applied; clear it first",
	http.StatusConflict,
)

var ErrInvoiceNotEditable = New(
	CodeInvalidStatus,
	"invoice",
	"Paid and canceled invoices cannot be edited",
	http.StatusConflict,
)

var ErrInvoiceAmountLocked = New(
	CodeInvalidStatus,
	"invoice",
	"Invoice amounts cannot change once a payment has been recorded",
	http.StatusConflict,
)

var ErrPaidInvoiceCancel = New(
	CodeInvalidStatus,
	"invoice",
	"Paid invoices cannot be canceled",
	http.StatusConflict,
)

var ErrPlanArchived = New(
	CodeInvalidStatus,
	"plan",
	"Subscription plan is archived",
	http.StatusConflict,
)

// --- Coupon validation rejections, in check order ---

var ErrCouponNotFound = New(
	CodeNotFound,
	"coupon",
	"Coupon code not found",
	http.StatusNotFound,
)

var ErrCouponVoided = New(
	CodeInvalidStatus,
	"coupon",
	"Coupon has been voided",
	http.StatusConflict,
)

var ErrCouponInactive = New(
	CodeInvalidStatus,
	"coupon",
	"Coupon is not active",
	http.StatusConflict,
)

var ErrCouponNotStarted = New(
	CodeInvalidOperation,
	"coupon",
	"Coupon is not valid yet",
	http.StatusConflict,
)

var ErrCouponExpired = New(
	CodeInvalidOperation,
	"coupon",
	"Coupon has expired",
	http.StatusConflict,
)

var ErrCouponExhausted = New(
	CodeLimitExceeded,
	"coupon",
	"Coupon usage limit has been reached",
	http.StatusConflict,
)

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
