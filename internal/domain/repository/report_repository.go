package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaidInvoiceRow is the slice of an invoice needed for sales aggregation
type PaidInvoiceRow struct {
	InvoiceID     uuid.UUID
	InvoiceDate   time.Time
	Total         decimal.Decimal
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerEmail string
}

// PaidLineRow is one line of a paid invoice joined with its product
type PaidLineRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Total       decimal.Decimal
}

// ReportRepository reads the data behind sales reports.
// Only invoices with status Paid and an invoice date in [start, end] are returned.
type ReportRepository interface {
	PaidInvoices(ctx context.Context, start, end time.Time) ([]PaidInvoiceRow, error)
	PaidInvoiceLines(ctx context.Context, start, end time.Time) ([]PaidLineRow, error)
}
