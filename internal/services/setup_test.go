package services

import (
	"fmt"
	"testing"
	"time"

	"academy_backend/database"
	"academy_backend/internal/email"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv bundles the services under test around one in-memory
// database per test.
type testEnv struct {
	db       *gorm.DB
	plans    PlanService
	athletes AthleteService
	subs     SubscriptionService
	invoices InvoiceService
	payments PaymentService
	coupons  CouponService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	athleteRepo := repositories.NewAthleteRepository()
	planRepo := repositories.NewPlanRepository()
	subRepo := repositories.NewSubscriptionRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	paymentRepo := repositories.NewPaymentRepository()
	couponRepo := repositories.NewCouponRepository()
	seqRepo := repositories.NewSequenceRepository()

	subService := NewSubscriptionService(subRepo, planRepo, athleteRepo, couponRepo)
	couponService := NewCouponService(couponRepo)
	invoiceService := NewInvoiceService(invoiceRepo, athleteRepo, subRepo, planRepo, couponRepo, seqRepo, couponService, email.NewNoopProvider(), 7)

	return &testEnv{
		db:       db,
		plans:    NewPlanService(planRepo),
		athletes: NewAthleteService(athleteRepo, planRepo, couponRepo, seqRepo, subService, invoiceService),
		subs:     subService,
		invoices: invoiceService,
		payments: NewPaymentService(paymentRepo, invoiceRepo, athleteRepo, seqRepo, email.NewNoopProvider()),
		coupons:  couponService,
	}
}

func (e *testEnv) createPlan(t *testing.T, name string, amount int64, interval models.BillingInterval) *models.SubscriptionPlan {
	t.Helper()

	plan, err := e.plans.Create(e.db, &models.CreatePlanRequest{
		Name:     name,
		Amount:   decimal.NewFromInt(amount),
		Interval: interval,
	})
	require.NoError(t, err)
	return plan
}

func (e *testEnv) registerAthlete(t *testing.T, name string) *models.Athlete {
	t.Helper()

	athlete, err := e.athletes.Register(e.db, &models.RegisterAthleteRequest{
		FullName: name,
	})
	require.NoError(t, err)
	return athlete
}

func (e *testEnv) onboardAthlete(t *testing.T, name, planID string) *models.OnboardAthleteResult {
	t.Helper()

	result, err := e.athletes.Onboard(e.db, &models.OnboardAthleteRequest{
		RegisterAthleteRequest: models.RegisterAthleteRequest{FullName: name},
		PlanID:                 planID,
	}, "test-admin")
	require.NoError(t, err)
	return result
}

func (e *testEnv) createCoupon(t *testing.T, code string, discountType models.DiscountType, value int64, limit *int64) *models.Coupon {
	t.Helper()

	coupon, err := e.coupons.Create(e.db, &models.CreateCouponRequest{
		Code:         code,
		DiscountType: discountType,
		Value:        decimal.NewFromInt(value),
		StartDate:    time.Now().UTC().AddDate(0, 0, -1),
		ExpiryDate:   time.Now().UTC().AddDate(1, 0, 0),
		UsageLimit:   limit,
	})
	require.NoError(t, err)
	return coupon
}

func (e *testEnv) reloadInvoice(t *testing.T, id string) *models.Invoice {
	t.Helper()

	var invoice models.Invoice
	require.NoError(t, e.db.First(&invoice, "id = ?", id).Error)
	return &invoice
}

func (e *testEnv) reloadAthlete(t *testing.T, id string) *models.Athlete {
	t.Helper()

	var athlete models.Athlete
	require.NoError(t, e.db.First(&athlete, "id = ?", id).Error)
	return &athlete
}
