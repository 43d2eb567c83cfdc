package repositories

import (
	"errors"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository is append-only. The ledger has no update or
// delete methods on purpose.
type PaymentRepository interface {
	Create(tx *gorm.DB, payment *models.Payment) error
	FindByID(tx *gorm.DB, id string) (*models.Payment, error)
	FindByReceiptNumber(tx *gorm.DB, number string) (*models.Payment, error)
	ListByInvoice(tx *gorm.DB, invoiceID string) ([]models.Payment, error)
	ListByAthlete(tx *gorm.DB, athleteID string) ([]models.Payment, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(tx *gorm.DB, payment *models.Payment) error {
	return tx.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.Payment, error) {
	var payment models.Payment
	err := tx.First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByReceiptNumber(tx *gorm.DB, number string) (*models.Payment, error) {
	var payment models.Payment
	err := tx.First(&payment, "receipt_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) ListByInvoice(tx *gorm.DB, invoiceID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := tx.Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) ListByAthlete(tx *gorm.DB, athleteID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := tx.Where("athlete_id = ?", athleteID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}
