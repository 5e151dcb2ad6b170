package repository

import (
	"context"
	"time"

	"github.com/sangkips/facturacion-api/internal/domain/enum"
	domainRepo "github.com/sangkips/facturacion-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) PaidInvoices(ctx context.Context, start, end time.Time) ([]domainRepo.PaidInvoiceRow, error) {
	var rows []domainRepo.PaidInvoiceRow
	err := conn(ctx, r.db).Table("invoices").
		Select(`invoices.id AS invoice_id,
			invoices.invoice_date AS invoice_date,
			invoices.total AS total,
			invoices.customer_id AS customer_id,
			customers.name AS customer_name,
			customers.email AS customer_email`).
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.status = ?", enum.InvoiceStatusPaid).
		Where("invoices.invoice_date >= ? AND invoices.invoice_date <= ?", start, end).
		Order("invoices.invoice_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) PaidInvoiceLines(ctx context.Context, start, end time.Time) ([]domainRepo.PaidLineRow, error) {
	var rows []domainRepo.PaidLineRow
	err := conn(ctx, r.db).Table("invoice_lines").
		Select(`invoice_lines.product_id AS product_id,
			products.name AS product_name,
			invoice_lines.quantity AS quantity,
			invoice_lines.total AS total`).
		Joins("JOIN invoices ON invoices.id = invoice_lines.invoice_id").
		Joins("JOIN products ON products.id = invoice_lines.product_id").
		Where("invoices.status = ?", enum.InvoiceStatusPaid).
		Where("invoices.invoice_date >= ? AND invoices.invoice_date <= ?", start, end).
		Scan(&rows).Error
	return rows, err
}
