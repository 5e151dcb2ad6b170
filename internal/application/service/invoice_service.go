package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	"github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/sangkips/facturacion-api/pkg/pagination"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// InvoiceSequenceName is the sequence that numbers invoices
const InvoiceSequenceName = "invoice"

var hundred = decimal.NewFromInt(100)

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	transactor   repository.Transactor
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	sequenceRepo repository.SequenceRepository
	taxRate      decimal.Decimal
}

// NewInvoiceService creates a new invoice service. taxRate is a fraction, e.g. 0.18.
func NewInvoiceService(
	transactor repository.Transactor,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	sequenceRepo repository.SequenceRepository,
	taxRate decimal.Decimal,
) *InvoiceService {
	return &InvoiceService{
		transactor:   transactor,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		sequenceRepo: sequenceRepo,
		taxRate:      taxRate,
	}
}

// InvoiceLineInput represents a single line in the create invoice input
type InvoiceLineInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // percent, 0-100
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CustomerID uuid.UUID
	DueDate    *time.Time
	Notes      string
	Lines      []InvoiceLineInput
}

// CreateInvoice creates an invoice, allocates its number and takes the sold
// quantities out of stock. Everything commits together or not at all.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if errs := validateInvoiceInput(input); len(errs) > 0 {
		if len(errs) == 1 {
			return nil, apperror.NewFieldValidationError(errs[0].Field, errs[0].Message)
		}
		return nil, apperror.NewValidationError(errs)
	}

	var invoiceID uuid.UUID

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}

		// Prices and discounts are rounded to the stored column scale before any arithmetic
		invoice := &entity.Invoice{Lines: make([]entity.InvoiceLine, len(input.Lines))}
		productIDs := make([]uuid.UUID, 0, len(input.Lines))
		firstLine := make(map[uuid.UUID]int, len(input.Lines))
		for i, line := range input.Lines {
			invoice.Lines[i] = entity.InvoiceLine{
				ProductID:  line.ProductID,
				LineNumber: i + 1,
				Quantity:   line.Quantity,
				UnitPrice:  utils.RoundMoney(line.UnitPrice),
				Discount:   utils.RoundMoney(line.Discount),
			}
			if _, seen := firstLine[line.ProductID]; !seen {
				firstLine[line.ProductID] = i
				productIDs = append(productIDs, line.ProductID)
			}
		}
		requested := invoice.QuantitiesByProduct()

		// Batch fetch all products in one query
		products, err := s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}

		productMap := make(map[uuid.UUID]*entity.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}

		for i, line := range invoice.Lines {
			product, exists := productMap[line.ProductID]
			if !exists {
				return apperror.NewFieldValidationError(
					fmt.Sprintf("lines[%d].product_id", i),
					fmt.Sprintf("Product with ID %s not found or inactive", line.ProductID),
				)
			}
			if !product.CanSupply(requested[line.ProductID]) {
				return insufficientStock(i, product)
			}
		}

		seq, err := s.sequenceRepo.Next(ctx, InvoiceSequenceName)
		if err != nil {
			return err
		}

		invoice.InvoiceNumber = utils.FormatInvoiceNumber(seq)
		invoice.CustomerID = customer.ID
		invoice.InvoiceDate = time.Now().UTC()
		invoice.DueDate = input.DueDate
		invoice.Notes = strings.TrimSpace(input.Notes)
		invoice.Status = enum.InvoiceStatusPending
		invoice.ApplyTotals(s.taxRate)

		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return err
		}

		// Conditional decrement guards against a concurrent sale between the check and here
		for _, id := range productIDs {
			ok, err := s.productRepo.DecrementStock(ctx, id, requested[id])
			if err != nil {
				return err
			}
			if !ok {
				return insufficientStock(firstLine[id], productMap[id])
			}
		}

		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithLines(ctx, invoiceID)
}

func insufficientStock(line int, product *entity.Product) error {
	return apperror.NewFieldValidationError(
		fmt.Sprintf("lines[%d].quantity", line),
		fmt.Sprintf("Insufficient stock for product %s. Available: %d", product.Name, product.Stock),
	)
}

func validateInvoiceInput(input *CreateInvoiceInput) []apperror.FieldError {
	var errs []apperror.FieldError
	if input.CustomerID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "customer_id", Message: "Customer is required"})
	}
	if len(input.Lines) == 0 {
		errs = append(errs, apperror.FieldError{Field: "lines", Message: "Invoice must have at least one line"})
	}
	if len([]rune(strings.TrimSpace(input.Notes))) > 500 {
		errs = append(errs, apperror.FieldError{Field: "notes", Message: "Notes cannot exceed 500 characters"})
	}
	for i, line := range input.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		if line.ProductID == uuid.Nil {
			errs = append(errs, apperror.FieldError{Field: prefix + "product_id", Message: "Product is required"})
		}
		if line.Quantity < 1 {
			errs = append(errs, apperror.FieldError{Field: prefix + "quantity", Message: "Quantity must be at least 1"})
		}
		if !utils.RoundMoney(line.UnitPrice).IsPositive() {
			errs = append(errs, apperror.FieldError{Field: prefix + "unit_price", Message: "Unit price must be greater than 0"})
		}
		if discount := utils.RoundMoney(line.Discount); discount.IsNegative() || discount.GreaterThan(hundred) {
			errs = append(errs, apperror.FieldError{Field: prefix + "discount", Message: "Discount must be between 0 and 100"})
		}
	}
	return errs
}

// UpdateInvoiceStatus changes the lifecycle status of an invoice. Stock is not touched.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string) error {
	newStatus, ok := enum.ParseInvoiceStatus(status)
	if !ok {
		return apperror.NewFieldValidationError("status",
			fmt.Sprintf("Invalid status '%s'. Valid values: Pending, Paid, Cancelled", status))
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	return s.invoiceRepo.UpdateStatus(ctx, id, newStatus)
}

// DeleteInvoice removes an unpaid invoice and returns its quantities to stock
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetWithLines(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.IsPaid() {
			return apperror.NewConflictError("Cannot delete a paid invoice")
		}

		for _, line := range invoice.Lines {
			if err := s.productRepo.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		return s.invoiceRepo.Delete(ctx, id)
	})
}

// GetInvoice retrieves an invoice with its customer and lines
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListCustomerInvoices returns every invoice of a customer, newest first
func (s *InvoiceService) ListCustomerInvoices(ctx context.Context, customerID uuid.UUID) ([]entity.Invoice, error) {
	return s.invoiceRepo.ListByCustomer(ctx, customerID)
}

// SearchInvoices matches term against the invoice number and customer name
func (s *InvoiceService) SearchInvoices(ctx context.Context, term string) ([]entity.Invoice, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.NewFieldValidationError("term", "Search term is required")
	}
	return s.invoiceRepo.Search(ctx, term)
}
