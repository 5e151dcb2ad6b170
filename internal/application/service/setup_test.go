package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/config"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	"github.com/sangkips/facturacion-api/internal/infrastructure/database"
	"github.com/sangkips/facturacion-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testTaxRate = decimal.RequireFromString("0.18")

type fixture struct {
	db        *gorm.DB
	products  *ProductService
	customers *CustomerService
	invoices  *InvoiceService
	reports   *ReportService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Path:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	return &fixture{
		db:        db,
		products:  NewProductService(productRepo),
		customers: NewCustomerService(customerRepo, invoiceRepo),
		invoices: NewInvoiceService(
			repository.NewTransactor(db),
			invoiceRepo,
			customerRepo,
			productRepo,
			repository.NewSequenceRepository(db),
			testTaxRate,
		),
		reports: NewReportService(
			repository.NewReportRepository(db),
			productRepo,
			customerRepo,
			true,
			5,
		),
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), &CreateProductInput{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "General",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, name, email string) *entity.Customer {
	t.Helper()
	c, err := f.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p entity.Product
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p.Stock
}

// paidInvoice stores a paid invoice with a single line directly, bypassing stock
func (f *fixture) paidInvoice(t *testing.T, customer *entity.Customer, product *entity.Product, qty int, total string, date time.Time) *entity.Invoice {
	t.Helper()
	amount := decimal.RequireFromString(total)
	inv := &entity.Invoice{
		InvoiceNumber: "T-" + uuid.NewString()[:8],
		CustomerID:    customer.ID,
		InvoiceDate:   date.UTC(),
		SubTotal:      amount,
		Tax:           decimal.Zero,
		Total:         amount,
		Status:        enum.InvoiceStatusPaid,
		Lines: []entity.InvoiceLine{{
			ProductID:  product.ID,
			LineNumber: 1,
			Quantity:   qty,
			UnitPrice:  amount,
			SubTotal:   amount,
			Discount:   decimal.Zero,
			Total:      amount,
		}},
	}
	require.NoError(t, f.db.Omit("Customer").Create(inv).Error)
	return inv
}

func lineInput(p *entity.Product, qty int) InvoiceLineInput {
	return InvoiceLineInput{ProductID: p.ID, Quantity: qty, UnitPrice: p.Price}
}
