package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/sangkips/facturacion-api/pkg/pagination"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       utils.RoundMoney(input.Price),
		Stock:       input.Stock,
		Category:    strings.TrimSpace(input.Category),
		IsActive:    true,
	}

	if errs := validateProduct(product); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves an active product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists active products ordered by name
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// SearchProducts matches term against name, description and category
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]entity.Product, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.NewFieldValidationError("term", "Search term is required")
	}
	return s.productRepo.Search(ctx, term)
}

// ListProductsByCategory returns the active products of a category
func (s *ProductService) ListProductsByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return s.productRepo.ListByCategory(ctx, strings.TrimSpace(category))
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
}

// UpdateProduct applies a partial update to an active product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = utils.RoundMoney(*input.Price)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}

	if errs := validateProduct(product); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateStock overwrites the stock of an active product
func (s *ProductService) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return apperror.NewFieldValidationError("stock", "Stock cannot be negative")
	}

	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	return s.productRepo.SetStock(ctx, id, stock)
}

// DeleteProduct soft-deletes a product. Invoice lines keep referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Deactivate(ctx, id)
}

func validateProduct(p *entity.Product) []apperror.FieldError {
	var errs []apperror.FieldError
	if p.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	} else if len([]rune(p.Name)) > 100 {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name cannot exceed 100 characters"})
	}
	if len([]rune(p.Description)) > 500 {
		errs = append(errs, apperror.FieldError{Field: "description", Message: "Description cannot exceed 500 characters"})
	}
	if !p.Price.IsPositive() {
		errs = append(errs, apperror.FieldError{Field: "price", Message: "Price must be greater than 0"})
	}
	if p.Stock < 0 {
		errs = append(errs, apperror.FieldError{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len([]rune(p.Category)) > 50 {
		errs = append(errs, apperror.FieldError{Field: "category", Message: "Category cannot exceed 50 characters"})
	}
	return errs
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Names seen in this batch, to reject duplicates within the file
	seenNames := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		key := strings.ToLower(name)
		if prevRow, exists := seenNames[key]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "name",
				Message: fmt.Sprintf("Duplicate product '%s' (same as row %d)", name, prevRow),
			})
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "price", Message: fmt.Sprintf("Invalid price '%s'", row.Price)})
			continue
		}

		stock := 0
		if raw := strings.TrimSpace(row.Stock); raw != "" {
			if stock, err = strconv.Atoi(raw); err != nil {
				rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "stock", Message: fmt.Sprintf("Invalid stock '%s'", row.Stock)})
				continue
			}
		}

		product := entity.Product{
			Name:        name,
			Description: strings.TrimSpace(row.Description),
			Price:       utils.RoundMoney(price),
			Stock:       stock,
			Category:    strings.TrimSpace(row.Category),
			IsActive:    true,
		}

		if errs := validateProduct(&product); len(errs) > 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: errs[0].Field, Message: errs[0].Message})
			continue
		}

		seenNames[key] = rowNum
		validProducts = append(validProducts, product)
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import products: "+err.Error())
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}
