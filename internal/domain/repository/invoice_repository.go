package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	"github.com/sangkips/facturacion-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create persists the invoice header together with its lines
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetWithLines loads the invoice with its customer and line products
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Invoice, error)
	// Search matches the invoice number or the customer name
	Search(ctx context.Context, term string) ([]entity.Invoice, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	// Delete removes the invoice and all of its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SequenceRepository allocates monotonically increasing numbers
type SequenceRepository interface {
	// Next increments the named sequence and returns the new value.
	// Must run inside a transaction to serialize concurrent callers.
	Next(ctx context.Context, name string) (int64, error)
}
