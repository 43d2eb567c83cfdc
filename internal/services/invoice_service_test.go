package services

import (
	"fmt"
	"testing"
	"time"

	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBulk_PlanBacked(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	a := env.registerAthlete(t, "Wanjiru Kamau")
	b := env.registerAthlete(t, "Brian Otieno")

	result, err := env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{a.ID, b.ID},
		PlanID:     &plan.ID,
	}, "admin")
	require.NoError(t, err)
	require.Len(t, result.InvoiceNumbers, 2)

	day := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("INV-%s-001", day), result.InvoiceNumbers[0])
	assert.Equal(t, fmt.Sprintf("INV-%s-002", day), result.InvoiceNumbers[1])

	var invoice models.Invoice
	require.NoError(t, env.db.First(&invoice, "invoice_number = ?", result.InvoiceNumbers[0]).Error)
	assert.Equal(t, models.InvoiceTypeSubscription, invoice.Type)
	assert.True(t, invoice.AmountDue.Equal(decimal.NewFromInt(3000)))
	assert.False(t, invoice.IsInitialInvoice)
	require.NotNil(t, invoice.NextBillingDate)
}

func TestCreateBulk_ManualTerms(t *testing.T) {
	env := newTestEnv(t)
	a := env.registerAthlete(t, "Faith Chebet")

	result, err := env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{a.ID},
		Manual: &models.ManualInvoiceTerms{
			Name:     "Tournament kit",
			Amount:   decimal.NewFromInt(450),
			Interval: models.BillingIntervalOnce,
		},
		Type:     models.InvoiceTypeItemPurchase,
		Quantity: 2,
	}, "admin")
	require.NoError(t, err)
	require.Len(t, result.InvoiceNumbers, 1)

	var invoice models.Invoice
	require.NoError(t, env.db.First(&invoice, "invoice_number = ?", result.InvoiceNumbers[0]).Error)
	assert.Equal(t, models.InvoiceTypeItemPurchase, invoice.Type)
	assert.True(t, invoice.AmountDue.Equal(decimal.NewFromInt(900)))
	assert.Nil(t, invoice.PlanID)
	assert.Nil(t, invoice.SubscriptionID)
	assert.Nil(t, invoice.NextBillingDate)
	assert.False(t, invoice.Recurring)

	// A manual invoice never creates a catalog row.
	var count int64
	require.NoError(t, env.db.Model(&models.SubscriptionPlan{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBulk_AllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	a := env.registerAthlete(t, "Kevin Mutua")

	_, err := env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{a.ID, "no-such-athlete"},
		PlanID:     &plan.ID,
	}, "admin")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "missing_athlete_ids")

	// The failed batch issued nothing at all.
	var count int64
	require.NoError(t, env.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBulk_RequiresExactlyOneTermsSource(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	a := env.registerAthlete(t, "Amina Hassan")
	manual := &models.ManualInvoiceTerms{
		Name:     "Late fee",
		Amount:   decimal.NewFromInt(200),
		Interval: models.BillingIntervalOnce,
	}

	_, err := env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{a.ID},
	}, "admin")
	assert.Error(t, err)

	_, err = env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{a.ID},
		PlanID:     &plan.ID,
		Manual:     manual,
	}, "admin")
	assert.Error(t, err)
}

func TestEditInvoice_RecomputesAmounts(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Sharon Njeri", plan.ID)

	newAmount := decimal.NewFromInt(2500)
	quantity := 2
	edited, err := env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{
		UnitAmount: &newAmount,
		Quantity:   &quantity,
	})
	require.NoError(t, err)
	assert.True(t, edited.AmountDue.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, models.InvoiceStatusPending, edited.Status)
}

func TestEditInvoice_AmountsLockedAfterFirstPayment(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Dennis Kiprop", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 1000), "front-desk")
	require.NoError(t, err)

	// A partially paid invoice keeps its amounts.
	newAmount := decimal.NewFromInt(5000)
	_, err = env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{
		UnitAmount: &newAmount,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvoiceAmountLocked)

	quantity := 3
	_, err = env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{
		Quantity: &quantity,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvoiceAmountLocked)

	invoice := env.reloadInvoice(t, result.Invoice.ID)
	assert.True(t, invoice.AmountDue.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 1, invoice.Quantity)
}

func TestEditInvoice_DueDateEditableWhilePartial(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Joy Akinyi", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 2000), "front-desk")
	require.NoError(t, err)

	newDue := time.Now().UTC().AddDate(0, 0, 14)
	edited, err := env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{DueDate: &newDue})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartial, edited.Status)
	assert.True(t, edited.AmountDue.Equal(decimal.NewFromInt(3000)))
}

func TestEditInvoice_PaidAndCanceledAreFrozen(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Grace Wambui", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)

	newAmount := decimal.NewFromInt(4000)
	_, err = env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{UnitAmount: &newAmount})
	assert.ErrorIs(t, err, apperrors.ErrInvoiceNotEditable)
}

func TestTransitionStatus_PaidInvoiceCannotBeCanceled(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Mercy Wairimu", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)

	_, err = env.invoices.TransitionStatus(env.db, result.Invoice.ID, models.InvoiceStatusCanceled)
	assert.ErrorIs(t, err, apperrors.ErrPaidInvoiceCancel)
	assert.Equal(t, models.InvoiceStatusPaid, env.reloadInvoice(t, result.Invoice.ID).Status)
}

func TestTransitionStatus_UnpaidAndPartialCancelable(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Collins Omondi", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 1000), "front-desk")
	require.NoError(t, err)

	canceled, err := env.invoices.TransitionStatus(env.db, result.Invoice.ID, models.InvoiceStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCanceled, canceled.Status)
}

func TestEffectiveStatus_LazyOverdue(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Wanjiru Kamau", plan.ID)

	past := time.Now().UTC().AddDate(0, 0, -3)
	_, err := env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{DueDate: &past})
	require.NoError(t, err)

	// The stored row stays PENDING; reads report OVERDUE.
	stored := env.reloadInvoice(t, result.Invoice.ID)
	assert.Equal(t, models.InvoiceStatusPending, stored.Status)

	fetched, err := env.invoices.Get(env.db, result.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, fetched.Status)
}

func TestMarkOverdue_SweepsUnpaidPastDue(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Brian Otieno", plan.ID)

	past := time.Now().UTC().AddDate(0, 0, -3)
	_, err := env.invoices.Edit(env.db, result.Invoice.ID, &models.EditInvoiceRequest{DueDate: &past})
	require.NoError(t, err)

	flipped, err := env.invoices.MarkOverdue(env.db, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, flipped)

	assert.Equal(t, models.InvoiceStatusOverdue, env.reloadInvoice(t, result.Invoice.ID).Status)

	// Overdue invoices still accept payment.
	receipt, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, receipt.InvoiceStatus)
}

func TestListInvoices_FilterByStatusAndAthlete(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	first := env.onboardAthlete(t, "Faith Chebet", plan.ID)
	second := env.onboardAthlete(t, "Kevin Mutua", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(first.Athlete.ID, first.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)

	paid, total, err := env.invoices.List(env.db, repositories.InvoiceFilter{Status: models.InvoiceStatusPaid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, paid, 1)
	assert.Equal(t, first.Athlete.ID, paid[0].AthleteID)

	mine, total, err := env.invoices.List(env.db, repositories.InvoiceFilter{AthleteID: second.Athlete.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, models.InvoiceStatusPending, mine[0].Status)
}
