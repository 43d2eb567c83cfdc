package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	BaseModel
	Name     string          `gorm:"not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Interval BillingInterval `gorm:"not null" json:"interval"`
	Perks    datatypes.JSON  `json:"perks,omitempty"` // {"sessions_per_week": 3, "gear_included": true}
	IsActive bool            `gorm:"default:true" json:"is_active"`
	Archived bool            `gorm:"default:false" json:"archived"`
}

type AthleteSubscription struct {
	BaseModel
	AthleteID string `gorm:"not null;index;index:idx_subscriptions_one_active,unique,where:status = 'ACTIVE'" json:"athlete_id"`
	PlanID    string `gorm:"not null;index" json:"plan_id"`
	// At most one ACTIVE row per athlete. The lifecycle service
	// enforces this inside its transaction; the partial unique index
	// above backs it up at the database level.
	Status             SubscriptionStatus `gorm:"not null;default:'ACTIVE'" json:"status"`
	StartDate          time.Time          `gorm:"not null" json:"start_date"`
	CurrentPeriodStart time.Time          `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `gorm:"not null" json:"current_period_end"`
	EndDate            *time.Time         `json:"end_date,omitempty"`
	AutoRenew          bool               `gorm:"default:true" json:"auto_renew"`
	CancelAtPeriodEnd  bool               `gorm:"default:false" json:"cancel_at_period_end"`
	CouponID           *string            `gorm:"index" json:"coupon_id,omitempty"`
	UpdatedBy          string             `json:"updated_by"`

	Plan   SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Coupon *Coupon          `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}

type Invoice struct {
	BaseModel
	InvoiceNumber string `gorm:"uniqueIndex;not null" json:"invoice_number"` // INV-YYYYMMDD-NNN
	AthleteID     string `gorm:"not null;index" json:"athlete_id"`
	// SubscriptionID/PlanID are nil for manual invoices: a manual
	// invoice carries its own terms (UnitAmount, Interval) instead of
	// fabricating a throwaway catalog row.
	SubscriptionID  *string         `gorm:"index" json:"subscription_id,omitempty"`
	PlanID          *string         `gorm:"index" json:"plan_id,omitempty"`
	Type            InvoiceType     `gorm:"not null;default:'SUBSCRIPTION'" json:"type"`
	UnitAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_amount"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	AmountDue       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_due"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount_paid"`
	Status          InvoiceStatus   `gorm:"not null;default:'PENDING';index" json:"status"`
	DueDate         time.Time       `gorm:"not null" json:"due_date"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	NextBillingDate *time.Time      `json:"next_billing_date,omitempty"`
	Recurring       bool            `gorm:"default:false" json:"recurring"`
	// IsInitialInvoice marks the athlete's first subscription invoice;
	// full payment of it activates the athlete.
	IsInitialInvoice bool            `gorm:"default:false" json:"is_initial_invoice"`
	Interval         BillingInterval `gorm:"not null;default:'ONCE'" json:"interval"`
	Description      string          `json:"description"`
	IssuedBy         string          `gorm:"not null" json:"issued_by"`

	Athlete  Athlete   `gorm:"foreignKey:AthleteID" json:"athlete,omitempty"`
	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// Remaining is the outstanding balance.
func (i *Invoice) Remaining() decimal.Decimal {
	return i.AmountDue.Sub(i.AmountPaid)
}

// EffectiveStatus applies the lazy overdue rule: an unpaid invoice
// past its due date reads as OVERDUE even though the stored status is
// still PENDING or PARTIAL.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if (i.Status == InvoiceStatusPending || i.Status == InvoiceStatusPartial) &&
		now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// InvoiceStatusFor derives status from the paid amount. Status is a
// pure function of (amountPaid, amountDue, canceled).
func InvoiceStatusFor(amountPaid, amountDue decimal.Decimal, canceled bool) InvoiceStatus {
	switch {
	case canceled:
		return InvoiceStatusCanceled
	case amountPaid.GreaterThanOrEqual(amountDue) && amountDue.IsPositive():
		return InvoiceStatusPaid
	case amountPaid.IsPositive():
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPending
	}
}

// Payment is an append-only ledger entry. Rows are created once and
// never mutated or deleted.
type Payment struct {
	BaseModel
	ReceiptNumber string          `gorm:"uniqueIndex;not null" json:"receipt_number"` // FEES-YYYYMMDD-NNN
	InvoiceID     string          `gorm:"not null;index" json:"invoice_id"`
	AthleteID     string          `gorm:"not null;index" json:"athlete_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Method        PaymentMethod   `gorm:"not null" json:"method"`
	CollectedBy   string          `gorm:"not null" json:"collected_by"`
	Notes         string          `json:"notes"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

type Coupon struct {
	BaseModel
	Code         string          `gorm:"uniqueIndex;not null" json:"code"` // stored uppercase
	DiscountType DiscountType    `gorm:"not null" json:"discount_type"`
	Value        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	// Interval restricts which plan intervals the coupon applies to;
	// empty means any.
	Interval   BillingInterval `json:"interval,omitempty"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	ExpiryDate time.Time       `gorm:"not null" json:"expiry_date"`
	// UsageLimit nil means unlimited.
	UsageLimit *int64 `json:"usage_limit,omitempty"`
	TimesUsed  int64  `gorm:"not null;default:0" json:"times_used"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	Voided     bool   `gorm:"default:false" json:"voided"`
}

// DocumentSequence backs the day-scoped invoice/receipt numbering.
// The composite primary key doubles as the uniqueness constraint; the
// counter is bumped with a single INSERT .. ON CONFLICT .. RETURNING.
type DocumentSequence struct {
	Day    string `gorm:"primaryKey;size:8" json:"day"` // YYYYMMDD
	Family string `gorm:"primaryKey;size:16" json:"family"`
	Value  int64  `gorm:"not null" json:"value"`
}
