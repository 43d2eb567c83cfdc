package services

import (
	"testing"

	"academy_backend/internal/models"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payReq(athleteID, invoiceID string, amount int64) *models.RecordPaymentRequest {
	return &models.RecordPaymentRequest{
		AthleteID: athleteID,
		InvoiceID: invoiceID,
		Amount:    decimal.NewFromInt(amount),
		Method:    models.PaymentMethodCash,
	}
}

func TestRecordPayment_FullPaymentActivatesAthlete(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Wanjiru Kamau", plan.ID)

	require.Equal(t, models.AthleteStatusPending, result.Athlete.Status)
	require.Equal(t, models.InvoiceStatusPending, result.Invoice.Status)
	require.True(t, result.Invoice.IsInitialInvoice)
	require.True(t, result.Invoice.AmountDue.Equal(decimal.NewFromInt(3000)))

	receipt, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceStatusPaid, receipt.InvoiceStatus)
	assert.True(t, receipt.Remaining.IsZero())
	assert.True(t, receipt.AthleteActivated)
	assert.Regexp(t, `^FEES-\d{8}-\d{3,}$`, receipt.ReceiptNumber)

	invoice := env.reloadInvoice(t, result.Invoice.ID)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(3000)))

	athlete := env.reloadAthlete(t, result.Athlete.ID)
	assert.Equal(t, models.AthleteStatusActive, athlete.Status)
}

func TestRecordPayment_PartialThenFull(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Brian Otieno", plan.ID)

	first, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 1000), "front-desk")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartial, first.InvoiceStatus)
	assert.True(t, first.Remaining.Equal(decimal.NewFromInt(2000)))
	assert.False(t, first.AthleteActivated)

	// Partial payment does not activate the athlete.
	assert.Equal(t, models.AthleteStatusPending, env.reloadAthlete(t, result.Athlete.ID).Status)

	second, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 2000), "front-desk")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, second.InvoiceStatus)
	assert.True(t, second.AthleteActivated)

	invoice := env.reloadInvoice(t, result.Invoice.ID)
	assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(3000)))

	// A paid invoice accepts no further payments of any size.
	_, err = env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 1), "front-desk")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvoiceNotPayable)

	payments, err := env.payments.ListByInvoice(env.db, result.Invoice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestRecordPayment_OverpaymentRejected(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Faith Chebet", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 1000), "front-desk")
	require.NoError(t, err)

	_, err = env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 2500), "front-desk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2000.00")

	// Rejection leaves the invoice and ledger untouched.
	invoice := env.reloadInvoice(t, result.Invoice.ID)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(decimal.NewFromInt(1000)))

	payments, err := env.payments.ListByInvoice(env.db, result.Invoice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestRecordPayment_NonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Kevin Mutua", plan.ID)

	for _, amount := range []int64{0, -500} {
		_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, amount), "front-desk")
		assert.ErrorIs(t, err, apperrors.ErrNonPositivePayment)
	}
}

func TestRecordPayment_WrongAthleteRejected(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Amina Hassan", plan.ID)
	other := env.registerAthlete(t, "Sharon Njeri")

	_, err := env.payments.RecordPayment(env.db, payReq(other.ID, result.Invoice.ID, 1000), "front-desk")
	assert.ErrorIs(t, err, apperrors.ErrInvoiceOwnership)
}

func TestRecordPayment_CanceledInvoiceRejected(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Dennis Kiprop", plan.ID)

	_, err := env.invoices.TransitionStatus(env.db, result.Invoice.ID, models.InvoiceStatusCanceled)
	require.NoError(t, err)

	_, err = env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	assert.ErrorIs(t, err, apperrors.ErrInvoiceNotPayable)
}

func TestRecordPayment_ActivationIsOneWay(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Grace Wambui", plan.ID)

	_, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, 3000), "front-desk")
	require.NoError(t, err)

	// Suspended athletes are not re-activated by later payments.
	require.NoError(t, env.athletes.UpdateStatus(env.db, result.Athlete.ID, models.AthleteStatusSuspended))

	batch, err := env.invoices.CreateBulk(env.db, &models.BulkInvoiceRequest{
		AthleteIDs: []string{result.Athlete.ID},
		PlanID:     &plan.ID,
	}, "admin")
	require.NoError(t, err)
	require.Len(t, batch.InvoiceNumbers, 1)

	var followUp models.Invoice
	require.NoError(t, env.db.First(&followUp, "invoice_number = ?", batch.InvoiceNumbers[0]).Error)
	require.False(t, followUp.IsInitialInvoice)

	receipt, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, followUp.ID, 3000), "front-desk")
	require.NoError(t, err)
	assert.False(t, receipt.AthleteActivated)
	assert.Equal(t, models.AthleteStatusSuspended, env.reloadAthlete(t, result.Athlete.ID).Status)
}

func TestRecordPayment_ReceiptNumbersIncrease(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Elite Monthly", 3000, models.BillingIntervalMonthly)
	result := env.onboardAthlete(t, "Joy Akinyi", plan.ID)

	var numbers []string
	for _, amount := range []int64{500, 500, 500} {
		receipt, err := env.payments.RecordPayment(env.db, payReq(result.Athlete.ID, result.Invoice.ID, amount), "front-desk")
		require.NoError(t, err)
		numbers = append(numbers, receipt.ReceiptNumber)
	}

	assert.Less(t, numbers[0], numbers[1])
	assert.Less(t, numbers[1], numbers[2])
}
