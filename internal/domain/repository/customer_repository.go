package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations.
// Read methods only return active customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetActiveByEmail matches the email case-insensitively among active customers
	GetActiveByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	Search(ctx context.Context, term string) ([]entity.Customer, error)
	CountActive(ctx context.Context) (int64, error)
}
