package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	domainRepo "github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/pagination"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) active(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&entity.Customer{}).Scopes(ActiveScope("customers"))
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.active(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetActiveByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.active(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *customerRepository) searchWhere(query *gorm.DB, term string) *gorm.DB {
	pattern := utils.ContainsPattern(term)
	return query.Where(anyLike("name", "email", "document_number"),
		pattern, pattern, pattern)
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.active(ctx)

	if search != "" {
		query = r.searchWhere(query, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) Search(ctx context.Context, term string) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.searchWhere(r.active(ctx), term).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.active(ctx).Count(&total).Error
	return total, err
}
