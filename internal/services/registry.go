package services

import (
	"academy_backend/internal/config"
	"academy_backend/internal/email"
	"academy_backend/internal/repositories"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService         AuthService
	PlanService         PlanService
	AthleteService      AthleteService
	SubscriptionService SubscriptionService
	InvoiceService      InvoiceService
	PaymentService      PaymentService
	CouponService       CouponService
	EmailProvider       email.Provider
}

// NewServiceContainer wires repositories into services.
func NewServiceContainer(cfg *config.Config, emailProvider email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	athleteRepo := repositories.NewAthleteRepository()
	planRepo := repositories.NewPlanRepository()
	subRepo := repositories.NewSubscriptionRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	paymentRepo := repositories.NewPaymentRepository()
	couponRepo := repositories.NewCouponRepository()
	seqRepo := repositories.NewSequenceRepository()

	subService := NewSubscriptionService(subRepo, planRepo, athleteRepo, couponRepo)
	couponService := NewCouponService(couponRepo)
	invoiceService := NewInvoiceService(
		invoiceRepo, athleteRepo, subRepo, planRepo, couponRepo, seqRepo,
		couponService, emailProvider, cfg.Billing.DefaultDueDays)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		PlanService:         NewPlanService(planRepo),
		AthleteService:      NewAthleteService(athleteRepo, planRepo, couponRepo, seqRepo, subService, invoiceService),
		SubscriptionService: subService,
		InvoiceService:      invoiceService,
		PaymentService:      NewPaymentService(paymentRepo, invoiceRepo, athleteRepo, seqRepo, emailProvider),
		CouponService:       couponService,
		EmailProvider:       emailProvider,
	}
}
