package models

type AthleteStatus string
type UserRole string
type SubscriptionStatus string
type InvoiceStatus string
type InvoiceType string
type PaymentMethod string
type BillingInterval string
type DiscountType string

const (
	AthleteStatusPending     AthleteStatus = "PENDING"
	AthleteStatusActive      AthleteStatus = "ACTIVE"
	AthleteStatusSuspended   AthleteStatus = "SUSPENDED"
	AthleteStatusDeactivated AthleteStatus = "DEACTIVATED"

	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleCoach      UserRole = "COACH"
	UserRoleFrontDesk  UserRole = "FRONT_DESK"

	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusInactive SubscriptionStatus = "INACTIVE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"

	InvoiceStatusPending  InvoiceStatus = "PENDING"
	InvoiceStatusPartial  InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusCanceled InvoiceStatus = "CANCELED"
	InvoiceStatusOverdue  InvoiceStatus = "OVERDUE"

	InvoiceTypeSubscription InvoiceType = "SUBSCRIPTION"
	InvoiceTypeManual       InvoiceType = "MANUAL"
	InvoiceTypeLateFee      InvoiceType = "LATE_FEE"
	InvoiceTypeItemPurchase InvoiceType = "ITEM_PURCHASE"

	PaymentMethodCash           PaymentMethod = "CASH"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMpesaSendMoney PaymentMethod = "MPESA_SEND_MONEY"
	PaymentMethodMpesaPaybill   PaymentMethod = "MPESA_PAYBILL"

	BillingIntervalOnce    BillingInterval = "ONCE"
	BillingIntervalDaily   BillingInterval = "DAILY"
	BillingIntervalWeekly  BillingInterval = "WEEKLY"
	BillingIntervalMonthly BillingInterval = "MONTHLY"
	BillingIntervalYearly  BillingInterval = "YEARLY"

	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// AdminRoles are the roles allowed to run mutating billing operations.
var AdminRoles = []UserRole{UserRoleAdmin, UserRoleSuperAdmin}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

func (i BillingInterval) Valid() bool {
	switch i {
	case BillingIntervalOnce, BillingIntervalDaily, BillingIntervalWeekly,
		BillingIntervalMonthly, BillingIntervalYearly:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer,
		PaymentMethodMpesaSendMoney, PaymentMethodMpesaPaybill:
		return true
	}
	return false
}
