package handlers

import (
	"academy_backend/internal/services"
	"academy_backend/internal/validator"
)

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	PlanHandler         *PlanHandler
	AthleteHandler      *AthleteHandler
	SubscriptionHandler *SubscriptionHandler
	InvoiceHandler      *InvoiceHandler
	PaymentHandler      *PaymentHandler
	CouponHandler       *CouponHandler
}

// NewAppHandlers wires services into handlers around one shared
// BaseHandler.
func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, sc.AuthService),
		PlanHandler:         NewPlanHandler(base, sc.PlanService),
		AthleteHandler:      NewAthleteHandler(base, sc.AthleteService),
		SubscriptionHandler: NewSubscriptionHandler(base, sc.SubscriptionService),
		InvoiceHandler:      NewInvoiceHandler(base, sc.InvoiceService),
		PaymentHandler:      NewPaymentHandler(base, sc.PaymentService),
		CouponHandler:       NewCouponHandler(base, sc.CouponService),
	}
}
