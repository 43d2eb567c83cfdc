package services

import (
	"testing"

	"academy_backend/internal/models"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan_RejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.plans.Create(env.db, &models.CreatePlanRequest{
		Name:     "Free Ride",
		Amount:   decimal.Zero,
		Interval: models.BillingIntervalMonthly,
	})
	assert.Error(t, err)
}

func TestArchivePlan_HidesFromCatalogButKeepsRow(t *testing.T) {
	env := newTestEnv(t)
	keep := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	gone := env.createPlan(t, "Old Promo", 1500, models.BillingIntervalMonthly)

	require.NoError(t, env.plans.Archive(env.db, gone.ID))

	visible, err := env.plans.List(env.db, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, keep.ID, visible[0].ID)

	all, err := env.plans.List(env.db, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// The row survives; archival is a soft state.
	archived, err := env.plans.Get(env.db, gone.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.False(t, archived.IsActive)
}

func TestUpdatePlan_ArchivedIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	require.NoError(t, env.plans.Archive(env.db, plan.ID))

	name := "Renamed"
	_, err := env.plans.Update(env.db, plan.ID, &models.UpdatePlanRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrPlanArchived)
}

func TestUpdatePlan_DoesNotTouchIssuedInvoices(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Wanjiru Kamau", plan.ID)

	newAmount := decimal.NewFromInt(4000)
	_, err := env.plans.Update(env.db, plan.ID, &models.UpdatePlanRequest{Amount: &newAmount})
	require.NoError(t, err)

	// Already-issued invoices keep the price they were issued at.
	invoice := env.reloadInvoice(t, result.Invoice.ID)
	assert.True(t, invoice.AmountDue.Equal(decimal.NewFromInt(3000)))
}
