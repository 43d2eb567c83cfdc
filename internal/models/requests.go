package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs for the billing API. Shape validation happens in the
// handler layer (gin binding + validator rules); business rules are
// re-checked in the services regardless.

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreatePlanRequest struct {
	Name     string          `json:"name" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Interval BillingInterval `json:"interval" binding:"required" validate:"billing_interval"`
	Perks    map[string]any  `json:"perks,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

type UpdatePlanRequest struct {
	Name     *string          `json:"name,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Interval *BillingInterval `json:"interval,omitempty" validate:"omitempty,billing_interval"`
	Perks    map[string]any   `json:"perks,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

type RegisterAthleteRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}

// OnboardAthleteRequest registers an athlete and immediately opens the
// first subscription and its initial invoice in one transaction.
type OnboardAthleteRequest struct {
	RegisterAthleteRequest
	PlanID     string  `json:"plan_id" binding:"required"`
	CouponCode *string `json:"coupon_code,omitempty"`
}

type CreateSubscriptionRequest struct {
	AthleteID string `json:"athlete_id" binding:"required"`
	PlanID    string `json:"plan_id" binding:"required"`
}

type AttachCouponRequest struct {
	AthleteID string `json:"athlete_id" binding:"required"`
	Code      string `json:"code" binding:"required" validate:"coupon_code"`
}

// ManualInvoiceTerms are the ad-hoc terms of a manual invoice. They
// live on the invoice itself; no catalog row is created for them.
type ManualInvoiceTerms struct {
	Name     string          `json:"name" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Interval BillingInterval `json:"interval" binding:"required" validate:"billing_interval"`
}

type BulkInvoiceRequest struct {
	AthleteIDs  []string            `json:"athlete_ids" binding:"required,min=1"`
	PlanID      *string             `json:"plan_id,omitempty"`
	Manual      *ManualInvoiceTerms `json:"manual,omitempty"`
	Type        InvoiceType         `json:"type,omitempty" validate:"omitempty,invoice_type"`
	Quantity    int                 `json:"quantity,omitempty"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Description string              `json:"description,omitempty"`
}

type EditInvoiceRequest struct {
	UnitAmount  *decimal.Decimal `json:"unit_amount,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Interval    *BillingInterval `json:"interval,omitempty" validate:"omitempty,billing_interval"`
	Description *string          `json:"description,omitempty"`
}

type TransitionInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status" binding:"required"`
}

type RecordPaymentRequest struct {
	AthleteID   string          `json:"athlete_id" binding:"required"`
	InvoiceID   string          `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method" binding:"required" validate:"payment_method"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

type CreateCouponRequest struct {
	Code         string          `json:"code" binding:"required" validate:"coupon_code"`
	DiscountType DiscountType    `json:"discount_type" binding:"required" validate:"discount_type"`
	Value        decimal.Decimal `json:"value"`
	Interval     BillingInterval `json:"interval,omitempty" validate:"omitempty,billing_interval"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	ExpiryDate   time.Time       `json:"expiry_date" binding:"required"`
	UsageLimit   *int64          `json:"usage_limit,omitempty"`
}

type UpdateCouponRequest struct {
	IsActive   *bool      `json:"is_active,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	UsageLimit *int64     `json:"usage_limit,omitempty"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// Operation results returned by the services. Handlers fold them into
// the {success, message} response contract.

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type PaymentReceipt struct {
	ReceiptNumber    string          `json:"receipt_number"`
	InvoiceNumber    string          `json:"invoice_number"`
	InvoiceStatus    InvoiceStatus   `json:"invoice_status"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Remaining        decimal.Decimal `json:"remaining"`
	AthleteActivated bool            `json:"athlete_activated"`
	Message          string          `json:"message"`
}

type BulkInvoiceResult struct {
	InvoiceNumbers []string `json:"invoice_numbers"`
	Message        string   `json:"message"`
}

type OnboardAthleteResult struct {
	Athlete      *Athlete             `json:"athlete"`
	Subscription *AthleteSubscription `json:"subscription"`
	Invoice      *Invoice             `json:"invoice"`
	Message      string               `json:"message"`
}
