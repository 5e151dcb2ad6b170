package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	domainRepo "github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Omit("Customer").Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_lines.line_number ASC")
		}).
		Preload("Lines.Product").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("invoice_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("invoice_date DESC, created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Preload("Customer").
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Search(ctx context.Context, term string) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	pattern := utils.ContainsPattern(term)

	matchingCustomers := conn(ctx, r.db).Model(&entity.Customer{}).
		Select("id").
		Where(likeClause("name"), pattern)

	err := conn(ctx, r.db).
		Where("("+likeClause("invoice_number")+" OR customer_id IN (?))", pattern, matchingCustomers).
		Preload("Customer").
		Order("invoice_date DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, err
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	return conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes lines explicitly so SQLite without foreign key enforcement behaves like PostgreSQL
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("invoice_id = ?", id).Delete(&entity.InvoiceLine{}).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Invoice{}, "id = ?", id).Error
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next bumps the counter with a single UPDATE so the row lock serializes
// concurrent transactions; the row is created on first use.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	db := conn(ctx, r.db)

	bump := func() (int64, error) {
		result := db.Model(&entity.InvoiceSequence{}).
			Where("name = ?", name).
			Update("last_value", gorm.Expr("last_value + 1"))
		return result.RowsAffected, result.Error
	}

	affected, err := bump()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.InvoiceSequence{Name: name}).Error; err != nil {
			return 0, err
		}
		if _, err := bump(); err != nil {
			return 0, err
		}
	}

	var seq entity.InvoiceSequence
	if err := db.Where("name = ?", name).Take(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}
