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

	"gorm.io/gorm"
)

type PaymentService interface {
	RecordPayment(db *gorm.DB, req *models.RecordPaymentRequest, collectedBy string) (*models.PaymentReceipt, error)
	ListByInvoice(db *gorm.DB, invoiceID string) ([]models.Payment, error)
	ListByAthlete(db *gorm.DB, athleteID string) ([]models.Payment, error)
}

type PaymentServiceImpl struct {
	paymentRepo   repositories.PaymentRepository
	invoiceRepo   repositories.InvoiceRepository
	athleteRepo   repositories.AthleteRepository
	seqRepo       repositories.SequenceRepository
	emailProvider email.Provider
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	invoiceRepo repositories.InvoiceRepository,
	athleteRepo repositories.AthleteRepository,
	seqRepo repositories.SequenceRepository,
	emailProvider email.Provider,
) PaymentService {
	return &PaymentServiceImpl{
		paymentRepo:   paymentRepo,
		invoiceRepo:   invoiceRepo,
		athleteRepo:   athleteRepo,
		seqRepo:       seqRepo,
		emailProvider: emailProvider,
	}
}

// RecordPayment applies a payment to an invoice in one transaction.
// Overpayments are rejected outright; nothing is clamped or split.
func (s *PaymentServiceImpl) RecordPayment(db *gorm.DB, req *models.RecordPaymentRequest, collectedBy string) (*models.PaymentReceipt, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrNonPositivePayment
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	athlete, err := s.athleteRepo.FindByID(tx, req.AthleteID)
	if err != nil {
		return nil, handleAthleteError(err)
	}

	// Balance is re-read inside the transaction; the caller's view
	// of the invoice may be stale.
	invoice, err := s.invoiceRepo.FindByID(tx, req.InvoiceID)
	if err != nil {
		return nil, handleInvoiceError(err)
	}
	if invoice.AthleteID != athlete.ID {
		return nil, apperrors.ErrInvoiceOwnership
	}
	if invoice.Status == models.InvoiceStatusCanceled || invoice.Status == models.InvoiceStatusPaid {
		return nil, apperrors.ErrInvoiceNotPayable
	}

	remaining := invoice.Remaining()
	if req.Amount.GreaterThan(remaining) {
		return nil, apperrors.ErrOverpayment(remaining.StringFixed(2))
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	receiptNumber, err := s.seqRepo.NextDocumentNumber(tx, billing.FamilyReceipt, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payment := &models.Payment{
		ReceiptNumber: receiptNumber,
		InvoiceID:     invoice.ID,
		AthleteID:     athlete.ID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		Method:        req.Method,
		CollectedBy:   collectedBy,
		Notes:         req.Notes,
	}
	if err := s.paymentRepo.Create(tx, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	invoice.AmountPaid = invoice.AmountPaid.Add(req.Amount)
	invoice.Status = models.InvoiceStatusFor(invoice.AmountPaid, invoice.AmountDue, false)
	if err := s.invoiceRepo.Update(tx, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Full payment of the initial subscription invoice activates the
	// athlete. One-way: an already ACTIVE athlete stays ACTIVE.
	activated := false
	if invoice.Status == models.InvoiceStatusPaid &&
		invoice.IsInitialInvoice &&
		athlete.Status != models.AthleteStatusActive {
		if err := s.athleteRepo.UpdateStatus(tx, athlete.ID, models.AthleteStatusActive); err != nil {
			return nil, apperrors.InternalError(err)
		}
		activated = true
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	receipt := &models.PaymentReceipt{
		ReceiptNumber:    receiptNumber,
		InvoiceNumber:    invoice.InvoiceNumber,
		InvoiceStatus:    invoice.Status,
		AmountPaid:       req.Amount,
		Remaining:        invoice.Remaining(),
		AthleteActivated: activated,
		Message:          receiptMessage(receiptNumber, invoice),
	}

	s.sendReceiptEmail(athlete, receipt)

	return receipt, nil
}

func (s *PaymentServiceImpl) ListByInvoice(db *gorm.DB, invoiceID string) ([]models.Payment, error) {
	payments, err := s.paymentRepo.ListByInvoice(db, invoiceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

func (s *PaymentServiceImpl) ListByAthlete(db *gorm.DB, athleteID string) ([]models.Payment, error) {
	payments, err := s.paymentRepo.ListByAthlete(db, athleteID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

// sendReceiptEmail is best effort. The payment is already committed;
// a mail failure only gets logged.
func (s *PaymentServiceImpl) sendReceiptEmail(athlete *models.Athlete, receipt *models.PaymentReceipt) {
	if athlete.Email == "" {
		return
	}

	subject, body := email.ReceiptBody(athlete, receipt)
	if err := s.emailProvider.Send(athlete.Email, subject, body); err != nil {
		logger.Warn("failed to send receipt email",
			"athlete_id", athlete.ID, "receipt", receipt.ReceiptNumber, "error", err.Error())
	}
}

func receiptMessage(receiptNumber string, invoice *models.Invoice) string {
	if invoice.Status == models.InvoiceStatusPaid {
		return fmt.Sprintf("Payment recorded, receipt %s. Invoice %s is fully paid.",
			receiptNumber, invoice.InvoiceNumber)
	}
	return fmt.Sprintf("Payment recorded, receipt %s. Remaining balance on invoice %s is %s.",
		receiptNumber, invoice.InvoiceNumber, invoice.Remaining().StringFixed(2))
}
