package repositories

import (
	"errors"
	"time"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceFilter struct {
	AthleteID string
	Status    models.InvoiceStatus
	Type      models.InvoiceType
	Page      int
	PageSize  int
}

type InvoiceRepository interface {
	Create(tx *gorm.DB, invoice *models.Invoice) error
	FindByID(tx *gorm.DB, id string) (*models.Invoice, error)
	FindByNumber(tx *gorm.DB, number string) (*models.Invoice, error)
	List(tx *gorm.DB, filter InvoiceFilter) ([]models.Invoice, int64, error)
	Update(tx *gorm.DB, invoice *models.Invoice) error
	FindUnpaidPastDue(tx *gorm.DB, now time.Time) ([]models.Invoice, error)
}

type InvoiceRepositoryImpl struct{}

func NewInvoiceRepository() InvoiceRepository {
	return &InvoiceRepositoryImpl{}
}

func (r *InvoiceRepositoryImpl) Create(tx *gorm.DB, invoice *models.Invoice) error {
	return tx.Create(invoice).Error
}

func (r *InvoiceRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := tx.Preload("Payments").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) FindByNumber(tx *gorm.DB, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := tx.Preload("Payments").First(&invoice, "invoice_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) List(tx *gorm.DB, filter InvoiceFilter) ([]models.Invoice, int64, error) {
	query := tx.Model(&models.Invoice{})

	if filter.AthleteID != "" {
		query = query.Where("athlete_id = ?", filter.AthleteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var invoices []models.Invoice
	err := query.Order("created_at DESC").Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepositoryImpl) Update(tx *gorm.DB, invoice *models.Invoice) error {
	return tx.Save(invoice).Error
}

// FindUnpaidPastDue returns PENDING/PARTIAL invoices whose due date
// has passed. The sweeper flips these to OVERDUE.
func (r *InvoiceRepositoryImpl) FindUnpaidPastDue(tx *gorm.DB, now time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := tx.Where("status IN ? AND due_date < ?",
		[]models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusPartial}, now).
		Find(&invoices).Error
	return invoices, err
}
