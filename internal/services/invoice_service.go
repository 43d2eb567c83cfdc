package services

import (
	"fmt"
	"time"

	"academy_backend/internal/billing"
	"academy_backend/internal/email"
	"academy_backend/internal/logger"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceService interface {
	CreateBulk(db *gorm.DB, req *models.BulkInvoiceRequest, issuedBy string) (*models.BulkInvoiceResult, error)
	Edit(db *gorm.DB, id string, req *models.EditInvoiceRequest) (*models.Invoice, error)
	TransitionStatus(db *gorm.DB, id string, status models.InvoiceStatus) (*models.Invoice, error)
	Get(db *gorm.DB, id string) (*models.Invoice, error)
	List(db *gorm.DB, filter repositories.InvoiceFilter) ([]models.Invoice, int64, error)

	// IssueForSubscription creates the subscription invoice inside
	// the caller's transaction, applying and redeeming the attached
	// coupon when it is eligible.
	IssueForSubscription(tx *gorm.DB, athlete *models.Athlete, sub *models.AthleteSubscription, initial bool, issuedBy string, now time.Time) (*models.Invoice, error)

	// MarkOverdue flips unpaid invoices past their due date. Used by
	// the background sweeper; reads stay lazy regardless.
	MarkOverdue(db *gorm.DB, now time.Time) (int, error)
}

type InvoiceServiceImpl struct {
	invoiceRepo    repositories.InvoiceRepository
	athleteRepo    repositories.AthleteRepository
	subRepo        repositories.SubscriptionRepository
	planRepo       repositories.PlanRepository
	couponRepo     repositories.CouponRepository
	seqRepo        repositories.SequenceRepository
	coupons        CouponService
	emailProvider  email.Provider
	defaultDueDays int
}

func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	athleteRepo repositories.AthleteRepository,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.PlanRepository,
	couponRepo repositories.CouponRepository,
	seqRepo repositories.SequenceRepository,
	coupons CouponService,
	emailProvider email.Provider,
	defaultDueDays int,
) InvoiceService {
	return &InvoiceServiceImpl{
		invoiceRepo:    invoiceRepo,
		athleteRepo:    athleteRepo,
		subRepo:        subRepo,
		planRepo:       planRepo,
		couponRepo:     couponRepo,
		seqRepo:        seqRepo,
		coupons:        coupons,
		emailProvider:  emailProvider,
		defaultDueDays: defaultDueDays,
	}
}

// CreateBulk issues one invoice per athlete in a single transaction.
// Any invalid athlete id rolls back the entire batch.
func (s *InvoiceServiceImpl) CreateBulk(db *gorm.DB, req *models.BulkInvoiceRequest, issuedBy string) (*models.BulkInvoiceResult, error) {
	terms, err := s.resolveTerms(db, req)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	athletes, err := s.athleteRepo.FindByIDs(tx, req.AthleteIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if missing := missingIDs(req.AthleteIDs, athletes); len(missing) > 0 {
		return nil, apperrors.ErrNotFound(repositories.ErrAthleteNotFound, "Athlete").
			WithDetails(map[string]interface{}{"missing_athlete_ids": missing})
	}

	now := time.Now().UTC()
	dueDate := now.AddDate(0, 0, s.defaultDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	numbers := make([]string, 0, len(athletes))
	issued := make([]*models.Invoice, 0, len(athletes))
	for i := range athletes {
		athlete := &athletes[i]

		number, err := s.seqRepo.NextDocumentNumber(tx, billing.FamilyInvoice, now)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		periodStart, periodEnd := billing.PeriodFor(now, terms.interval)
		invoice := &models.Invoice{
			InvoiceNumber:   number,
			AthleteID:       athlete.ID,
			PlanID:          terms.planID,
			Type:            terms.invoiceType(req.Type),
			UnitAmount:      terms.amount,
			Quantity:        quantity,
			AmountDue:       terms.amount.Mul(decimal.NewFromInt(int64(quantity))),
			AmountPaid:      decimal.Zero,
			Status:          models.InvoiceStatusPending,
			DueDate:         dueDate,
			PeriodStart:     periodStart,
			PeriodEnd:       periodEnd,
			NextBillingDate: billing.NextBillingDate(now, terms.interval),
			Recurring:       terms.interval != models.BillingIntervalOnce,
			Interval:        terms.interval,
			Description:     description(req.Description, terms.name),
			IssuedBy:        issuedBy,
		}

		if err := s.invoiceRepo.Create(tx, invoice); err != nil {
			return nil, apperrors.InternalError(err)
		}
		numbers = append(numbers, number)
		issued = append(issued, invoice)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Notifications are best effort. The batch is already committed;
	// a mail failure only gets logged.
	for i, invoice := range issued {
		athlete := &athletes[i]
		if athlete.Email == "" {
			continue
		}
		subject, body := email.InvoiceBody(athlete, invoice)
		if err := s.emailProvider.Send(athlete.Email, subject, body); err != nil {
			logger.Warn("failed to send invoice email",
				"athlete_id", athlete.ID, "invoice", invoice.InvoiceNumber, "error", err.Error())
		}
	}

	logger.Info("bulk invoices issued", "count", len(numbers), "issued_by", issuedBy)
	return &models.BulkInvoiceResult{
		InvoiceNumbers: numbers,
		Message:        fmt.Sprintf("Issued %d invoice(s)", len(numbers)),
	}, nil
}

func (s *InvoiceServiceImpl) IssueForSubscription(tx *gorm.DB, athlete *models.Athlete, sub *models.AthleteSubscription, initial bool, issuedBy string, now time.Time) (*models.Invoice, error) {
	amount := sub.Plan.Amount

	// Apply the attached coupon when it still validates. Redeeming
	// counts the use in the same transaction as the discount.
	if sub.CouponID != nil {
		coupon, err := s.couponRepo.FindByID(tx, *sub.CouponID)
		if err != nil {
			return nil, handleCouponError(err)
		}
		if err := billing.ValidateCoupon(coupon, now); err == nil &&
			billing.CouponAppliesTo(coupon, sub.Plan.Interval) {
			amount = billing.ApplyDiscount(amount, coupon)
			if err := s.coupons.Redeem(tx, coupon.ID, now); err != nil {
				return nil, err
			}
		}
	}

	number, err := s.seqRepo.NextDocumentNumber(tx, billing.FamilyInvoice, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	invoice := &models.Invoice{
		InvoiceNumber:    number,
		AthleteID:        athlete.ID,
		SubscriptionID:   &sub.ID,
		PlanID:           &sub.PlanID,
		Type:             models.InvoiceTypeSubscription,
		UnitAmount:       amount,
		Quantity:         1,
		AmountDue:        amount,
		AmountPaid:       decimal.Zero,
		Status:           models.InvoiceStatusPending,
		DueDate:          now.AddDate(0, 0, s.defaultDueDays),
		PeriodStart:      sub.CurrentPeriodStart,
		PeriodEnd:        sub.CurrentPeriodEnd,
		NextBillingDate:  billing.NextBillingDate(now, sub.Plan.Interval),
		Recurring:        sub.Plan.Interval != models.BillingIntervalOnce,
		IsInitialInvoice: initial,
		Interval:         sub.Plan.Interval,
		Description:      fmt.Sprintf("%s subscription", sub.Plan.Name),
		IssuedBy:         issuedBy,
	}

	if err := s.invoiceRepo.Create(tx, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invoice, nil
}

// Edit recomputes amounts and billing dates for an open invoice.
// amountPaid and recorded payments are never touched here, and the
// amounts themselves lock once any payment has been recorded.
func (s *InvoiceServiceImpl) Edit(db *gorm.DB, id string, req *models.EditInvoiceRequest) (*models.Invoice, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	invoice, err := s.invoiceRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleInvoiceError(err)
	}
	if invoice.Status == models.InvoiceStatusPaid || invoice.Status == models.InvoiceStatusCanceled {
		return nil, apperrors.ErrInvoiceNotEditable
	}

	// Amounts are frozen as soon as money has been collected against
	// the invoice. Due date, interval and description stay editable.
	if (req.UnitAmount != nil || req.Quantity != nil) && !invoice.AmountPaid.IsZero() {
		return nil, apperrors.ErrInvoiceAmountLocked
	}

	if req.UnitAmount != nil {
		if !req.UnitAmount.IsPositive() {
			return nil, apperrors.NewBadRequestError("Unit amount must be greater than zero")
		}
		invoice.UnitAmount = *req.UnitAmount
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, apperrors.NewBadRequestError("Quantity must be at least 1")
		}
		invoice.Quantity = *req.Quantity
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Interval != nil {
		invoice.Interval = *req.Interval
		invoice.Recurring = *req.Interval != models.BillingIntervalOnce
	}
	if req.Description != nil {
		invoice.Description = *req.Description
	}

	invoice.AmountDue = invoice.UnitAmount.Mul(decimal.NewFromInt(int64(invoice.Quantity)))
	invoice.Status = models.InvoiceStatusFor(invoice.AmountPaid, invoice.AmountDue, false)

	next := billing.NextBillingDate(invoice.PeriodStart, invoice.Interval)
	invoice.NextBillingDate = next
	if next != nil {
		invoice.PeriodEnd = *next
	} else {
		invoice.PeriodEnd = invoice.PeriodStart
	}

	if err := s.invoiceRepo.Update(tx, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Keep the subscription period aligned with the edited invoice.
	if invoice.SubscriptionID != nil && next != nil {
		sub, err := s.subRepo.FindByID(tx, *invoice.SubscriptionID)
		if err == nil {
			sub.CurrentPeriodEnd = *next
			if err := s.subRepo.Update(tx, sub); err != nil {
				return nil, apperrors.InternalError(err)
			}
			if err := s.athleteRepo.UpdateNextBillingDate(tx, invoice.AthleteID, next); err != nil {
				return nil, apperrors.InternalError(err)
			}
		} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invoice, nil
}

// TransitionStatus is the manual override path. It moves the stored
// status directly and never creates or modifies payment rows. A paid
// invoice cannot be canceled; reversing a payment is a ledger concern.
func (s *InvoiceServiceImpl) TransitionStatus(db *gorm.DB, id string, status models.InvoiceStatus) (*models.Invoice, error) {
	switch status {
	case models.InvoiceStatusPending, models.InvoiceStatusPartial,
		models.InvoiceStatusPaid, models.InvoiceStatusCanceled,
		models.InvoiceStatusOverdue:
	default:
		return nil, apperrors.NewBadRequestError("Unknown invoice status")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	invoice, err := s.invoiceRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleInvoiceError(err)
	}
	if status == models.InvoiceStatusCanceled && invoice.Status == models.InvoiceStatusPaid {
		return nil, apperrors.ErrPaidInvoiceCancel
	}

	invoice.Status = status
	if err := s.invoiceRepo.Update(tx, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invoice, nil
}

func (s *InvoiceServiceImpl) Get(db *gorm.DB, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(db, id)
	if err != nil {
		return nil, handleInvoiceError(err)
	}
	// Overdue is computed at read time, not persisted.
	invoice.Status = invoice.EffectiveStatus(time.Now().UTC())
	return invoice, nil
}

func (s *InvoiceServiceImpl) List(db *gorm.DB, filter repositories.InvoiceFilter) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.List(db, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	now := time.Now().UTC()
	for i := range invoices {
		invoices[i].Status = invoices[i].EffectiveStatus(now)
	}
	return invoices, total, nil
}

func (s *InvoiceServiceImpl) MarkOverdue(db *gorm.DB, now time.Time) (int, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return 0, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	overdue, err := s.invoiceRepo.FindUnpaidPastDue(tx, now)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	for i := range overdue {
		overdue[i].Status = models.InvoiceStatusOverdue
		if err := s.invoiceRepo.Update(tx, &overdue[i]); err != nil {
			return 0, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, apperrors.InternalError(err)
	}
	return len(overdue), nil
}

// invoiceTerms is the resolved billing source of a bulk request:
// either a catalog plan or ad-hoc manual terms carried on the
// invoice itself.
type invoiceTerms struct {
	planID   *string
	name     string
	amount   decimal.Decimal
	interval models.BillingInterval
}

func (t *invoiceTerms) invoiceType(requested models.InvoiceType) models.InvoiceType {
	if requested != "" {
		return requested
	}
	if t.planID != nil {
		return models.InvoiceTypeSubscription
	}
	return models.InvoiceTypeManual
}

func (s *InvoiceServiceImpl) resolveTerms(db *gorm.DB, req *models.BulkInvoiceRequest) (*invoiceTerms, error) {
	switch {
	case req.PlanID != nil && req.Manual != nil:
		return nil, apperrors.NewBadRequestError("Provide either plan_id or manual terms, not both")
	case req.PlanID != nil:
		plan, err := s.planRepo.FindByID(db, *req.PlanID)
		if err != nil {
			return nil, handlePlanError(err)
		}
		if plan.Archived {
			return nil, apperrors.ErrPlanArchived
		}
		return &invoiceTerms{
			planID:   &plan.ID,
			name:     plan.Name,
			amount:   plan.Amount,
			interval: plan.Interval,
		}, nil
	case req.Manual != nil:
		if !req.Manual.Amount.IsPositive() {
			return nil, apperrors.NewBadRequestError("Manual amount must be greater than zero")
		}
		return &invoiceTerms{
			name:     req.Manual.Name,
			amount:   req.Manual.Amount,
			interval: req.Manual.Interval,
		}, nil
	default:
		return nil, apperrors.NewBadRequestError("Provide a plan_id or manual terms")
	}
}

func missingIDs(requested []string, found []models.Athlete) []string {
	have := make(map[string]bool, len(found))
	for i := range found {
		have[found[i].ID] = true
	}

	var missing []string
	for _, id := range requested {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func description(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

func handleInvoiceError(err error) error {
	if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
		return apperrors.ErrNotFound(err, "Invoice")
	}
	return apperrors.InternalError(err)
}
