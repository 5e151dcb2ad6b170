package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/sangkips/facturacion-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name           string
	Email          string
	Phone          string
	Address        string
	DocumentType   string
	DocumentNumber string
}

// CreateCustomer creates a new customer. The email must not belong to another active customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:           strings.TrimSpace(input.Name),
		Email:          normalizeEmail(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		DocumentType:   strings.TrimSpace(input.DocumentType),
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		IsActive:       true,
	}

	if errs := validateCustomer(customer); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.ensureEmailAvailable(ctx, customer.Email, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves an active customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists active customers ordered by name
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}

	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// SearchCustomers matches term against name, email and document number
func (s *CustomerService) SearchCustomers(ctx context.Context, term string) ([]entity.Customer, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.NewFieldValidationError("term", "Search term is required")
	}
	return s.customerRepo.Search(ctx, term)
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID             uuid.UUID
	Name           *string
	Email          *string
	Phone          *string
	Address        *string
	DocumentType   *string
	DocumentNumber *string
}

// UpdateCustomer applies a partial update to an active customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if !strings.EqualFold(email, customer.Email) {
			if err := s.ensureEmailAvailable(ctx, email, customer.ID); err != nil {
				return nil, err
			}
		}
		customer.Email = email
	}
	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.DocumentType != nil {
		customer.DocumentType = strings.TrimSpace(*input.DocumentType)
		if customer.DocumentType == "" {
			customer.DocumentType = entity.DefaultDocumentType
		}
	}
	if input.DocumentNumber != nil {
		customer.DocumentNumber = strings.TrimSpace(*input.DocumentNumber)
	}

	if errs := validateCustomer(customer); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer that has no invoices
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Cannot delete a customer with invoices")
	}

	return s.customerRepo.Deactivate(ctx, id)
}

func (s *CustomerService) ensureEmailAvailable(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.customerRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewFieldValidationError("email", "A customer with this email already exists")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCustomer(c *entity.Customer) []apperror.FieldError {
	var errs []apperror.FieldError
	if c.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	} else if len([]rune(c.Name)) > 100 {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name cannot exceed 100 characters"})
	}
	if c.Email == "" {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is required"})
	} else if _, err := mail.ParseAddress(c.Email); err != nil || len(c.Email) > 100 {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is not valid"})
	}
	if len([]rune(c.Phone)) > 20 {
		errs = append(errs, apperror.FieldError{Field: "phone", Message: "Phone cannot exceed 20 characters"})
	}
	if len([]rune(c.Address)) > 200 {
		errs = append(errs, apperror.FieldError{Field: "address", Message: "Address cannot exceed 200 characters"})
	}
	if len([]rune(c.DocumentType)) > 20 {
		errs = append(errs, apperror.FieldError{Field: "document_type", Message: "Document type cannot exceed 20 characters"})
	}
	if len([]rune(c.DocumentNumber)) > 20 {
		errs = append(errs, apperror.FieldError{Field: "document_number", Message: "Document number cannot exceed 20 characters"})
	}
	return errs
}
