package services

import (
	"testing"

	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAthlete_SequentialNumbers(t *testing.T) {
	env := newTestEnv(t)

	first := env.registerAthlete(t, "Wanjiru Kamau")
	second := env.registerAthlete(t, "Brian Otieno")

	assert.Equal(t, "ATH-001", first.AthleteNumber)
	assert.Equal(t, "ATH-002", second.AthleteNumber)
	assert.Equal(t, models.AthleteStatusPending, first.Status)
}

func TestOnboardAthlete_OpensSubscriptionAndInitialInvoice(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)

	result := env.onboardAthlete(t, "Faith Chebet", plan.ID)

	require.NotNil(t, result.Athlete)
	require.NotNil(t, result.Subscription)
	require.NotNil(t, result.Invoice)

	assert.Equal(t, models.AthleteStatusPending, result.Athlete.Status)
	assert.Equal(t, models.SubscriptionStatusActive, result.Subscription.Status)
	assert.Equal(t, plan.ID, result.Subscription.PlanID)
	assert.True(t, result.Invoice.IsInitialInvoice)
	assert.Equal(t, models.InvoiceTypeSubscription, result.Invoice.Type)
	assert.True(t, result.Invoice.AmountDue.Equal(decimal.NewFromInt(3000)))
	assert.Contains(t, result.Message, result.Invoice.InvoiceNumber)

	// The standing lifecycle rules see the new subscription.
	active, err := env.subs.GetActive(env.db, result.Athlete.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Subscription.ID, active.ID)
}

func TestOnboardAthlete_CouponDiscountsInitialInvoice(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	coupon := env.createCoupon(t, "KARIBU10", models.DiscountTypePercentage, 10, nil)

	code := "karibu10"
	result, err := env.athletes.Onboard(env.db, &models.OnboardAthleteRequest{
		RegisterAthleteRequest: models.RegisterAthleteRequest{FullName: "Kevin Mutua"},
		PlanID:                 plan.ID,
		CouponCode:             &code,
	}, "admin")
	require.NoError(t, err)

	assert.True(t, result.Invoice.AmountDue.Equal(decimal.NewFromInt(2700)),
		"amount due was %s", result.Invoice.AmountDue)

	// Issuing the discounted invoice consumed one use.
	var stored models.Coupon
	require.NoError(t, env.db.First(&stored, "id = ?", coupon.ID).Error)
	assert.EqualValues(t, 1, stored.TimesUsed)
}

func TestOnboardAthlete_BadCouponRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)

	code := "NOSUCHCODE"
	_, err := env.athletes.Onboard(env.db, &models.OnboardAthleteRequest{
		RegisterAthleteRequest: models.RegisterAthleteRequest{FullName: "Amina Hassan"},
		PlanID:                 plan.ID,
		CouponCode:             &code,
	}, "admin")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCouponNotFound)

	// No athlete, subscription or invoice survived the rollback.
	for _, model := range []interface{}{
		&models.Athlete{}, &models.AthleteSubscription{}, &models.Invoice{},
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestOnboardAthlete_ArchivedPlanRejected(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	require.NoError(t, env.plans.Archive(env.db, plan.ID))

	_, err := env.athletes.Onboard(env.db, &models.OnboardAthleteRequest{
		RegisterAthleteRequest: models.RegisterAthleteRequest{FullName: "Sharon Njeri"},
		PlanID:                 plan.ID,
	}, "admin")
	assert.ErrorIs(t, err, apperrors.ErrPlanArchived)
}

func TestListAthletes_SearchAndPagination(t *testing.T) {
	env := newTestEnv(t)
	names := []string{"Wanjiru Kamau", "Brian Otieno", "Faith Chebet", "Brian Kiprop"}
	for _, name := range names {
		env.registerAthlete(t, name)
	}

	matches, total, err := env.athletes.List(env.db, repositories.AthleteFilter{Search: "Brian"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, matches, 2)

	page, total, err := env.athletes.List(env.db, repositories.AthleteFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "ATH-004", page[0].AthleteNumber)

	byNumber, _, err := env.athletes.List(env.db, repositories.AthleteFilter{Search: "ATH-003"})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "Faith Chebet", byNumber[0].FullName)
}

func TestUpdateAthleteStatus(t *testing.T) {
	env := newTestEnv(t)
	athlete := env.registerAthlete(t, "Dennis Kiprop")

	require.NoError(t, env.athletes.UpdateStatus(env.db, athlete.ID, models.AthleteStatusSuspended))
	assert.Equal(t, models.AthleteStatusSuspended, env.reloadAthlete(t, athlete.ID).Status)

	err := env.athletes.UpdateStatus(env.db, athlete.ID, models.AthleteStatus("FROZEN"))
	assert.Error(t, err)

	err = env.athletes.UpdateStatus(env.db, "no-such-id", models.AthleteStatusActive)
	assert.Error(t, err)
}
