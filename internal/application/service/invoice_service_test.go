package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	domainRepo "github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/internal/infrastructure/repository"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceComputesTotalsAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	laptop := f.product(t, "Laptop HP", "599.99", 10)
	mouse := f.product(t, "Mouse Logitech", "29.99", 25)
	customer := f.customer(t, "Juan Pérez", "juan@example.com")

	invoice, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CustomerID: customer.ID,
		Notes:      "first sale",
		Lines: []InvoiceLineInput{
			lineInput(laptop, 3),
			{ProductID: mouse.ID, Quantity: 2, UnitPrice: mouse.Price, Discount: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", invoice.InvoiceNumber)
	assert.Equal(t, enum.InvoiceStatusPending, invoice.Status)
	require.NotNil(t, invoice.Customer)
	assert.Equal(t, "Juan Pérez", invoice.Customer.Name)
	require.Len(t, invoice.Lines, 2)
	assert.Equal(t, 1, invoice.Lines[0].LineNumber)
	require.NotNil(t, invoice.Lines[0].Product)
	assert.Equal(t, "Laptop HP", invoice.Lines[0].Product.Name)

	// 3 x 599.99 = 1799.97; 2 x 29.99 = 59.98 less 10% = 53.98
	assert.Equal(t, "1799.97", invoice.Lines[0].Total.StringFixed(2))
	assert.Equal(t, "53.98", invoice.Lines[1].Total.StringFixed(2))
	assert.Equal(t, "1853.95", invoice.SubTotal.StringFixed(2))
	assert.Equal(t, "333.71", invoice.Tax.StringFixed(2))
	assert.Equal(t, "2187.66", invoice.Total.StringFixed(2))

	sum := decimal.Zero
	for _, l := range invoice.Lines {
		sum = sum.Add(l.Total)
	}
	assert.True(t, invoice.SubTotal.Equal(sum))
	assert.True(t, invoice.Total.Equal(invoice.SubTotal.Add(invoice.Tax)))

	assert.Equal(t, 7, f.stockOf(t, laptop.ID))
	assert.Equal(t, 23, f.stockOf(t, mouse.ID))
}

func TestCreateInvoiceNumbersAreSequential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Monitor Samsung", "199.99", 8)
	c := f.customer(t, "María García", "maria@example.com")

	for _, want := range []string{"INV-000001", "INV-000002", "INV-000003"} {
		inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
			CustomerID: c.ID,
			Lines:      []InvoiceLineInput{lineInput(p, 1)},
		})
		require.NoError(t, err)
		assert.Equal(t, want, inv.InvoiceNumber)
	}
}

func TestCreateInvoiceInsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keyboard := f.product(t, "Teclado Mecánico", "89.99", 15)
	monitor := f.product(t, "Monitor Samsung", "199.99", 2)
	c := f.customer(t, "Ana", "ana@example.com")

	_, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines: []InvoiceLineInput{
			lineInput(keyboard, 5),
			lineInput(monitor, 3),
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, "Insufficient stock for product Monitor Samsung. Available: 2", err.Error())

	assert.Equal(t, 15, f.stockOf(t, keyboard.ID))
	assert.Equal(t, 2, f.stockOf(t, monitor.ID))

	var invoices, lines int64
	require.NoError(t, f.db.Model(&entity.Invoice{}).Count(&invoices).Error)
	require.NoError(t, f.db.Model(&entity.InvoiceLine{}).Count(&lines).Error)
	assert.Zero(t, invoices)
	assert.Zero(t, lines)

	// the rolled back attempt did not consume a number
	inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines:      []InvoiceLineInput{lineInput(monitor, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.InvoiceNumber)
	assert.Equal(t, 0, f.stockOf(t, monitor.ID))
}

func TestCreateInvoiceSumsRepeatedProductAgainstStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Mouse", "10.00", 4)
	c := f.customer(t, "Luis", "luis@example.com")

	_, err := f.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines:      []InvoiceLineInput{lineInput(p, 3), lineInput(p, 2)},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 4, f.stockOf(t, p.ID))
}

// racingProductRepo reports a lost race on the conditional decrement of one product
type racingProductRepo struct {
	domainRepo.ProductRepository
	soldOut uuid.UUID
}

func (r racingProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	if id == r.soldOut {
		return false, nil
	}
	return r.ProductRepository.DecrementStock(ctx, id, amount)
}

func TestCreateInvoiceLostStockRaceNamesRequestLine(t *testing.T) {
	f := newFixture(t)
	mouse := f.product(t, "Mouse", "10.00", 10)
	cable := f.product(t, "Cable", "2.00", 10)
	c := f.customer(t, "Luis", "luis@example.com")

	productRepo := repository.NewProductRepository(f.db)
	invoices := NewInvoiceService(
		repository.NewTransactor(f.db),
		repository.NewInvoiceRepository(f.db),
		repository.NewCustomerRepository(f.db),
		racingProductRepo{ProductRepository: productRepo, soldOut: cable.ID},
		repository.NewSequenceRepository(f.db),
		testTaxRate,
	)

	_, err := invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines:      []InvoiceLineInput{lineInput(mouse, 1), lineInput(mouse, 2), lineInput(cable, 1)},
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "lines[2].quantity", appErr.Errors[0].Field)
	assert.Contains(t, appErr.Message, "Cable")
	assert.Equal(t, 10, f.stockOf(t, mouse.ID))
}

func TestCreateInvoiceRoundsDiscountBeforeTotals(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Monitor", "100.00", 5)
	c := f.customer(t, "Luis", "luis@example.com")

	invoice, err := f.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines: []InvoiceLineInput{{
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("100.004"),
			Discount:  decimal.RequireFromString("33.335"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Lines, 1)

	line := invoice.Lines[0]
	assert.Equal(t, "100.00", line.UnitPrice.StringFixed(2))
	assert.Equal(t, "33.34", line.Discount.StringFixed(2))
	assert.Equal(t, "66.66", line.Total.StringFixed(2))

	recomputed := entity.InvoiceLine{Quantity: line.Quantity, UnitPrice: line.UnitPrice, Discount: line.Discount}
	recomputed.Calculate()
	assert.True(t, recomputed.Total.Equal(line.Total))
}

func TestCreateInvoiceRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Cable", "5.00", 10)
	inactive := f.product(t, "Old Cable", "5.00", 10)
	require.NoError(t, f.products.DeleteProduct(ctx, inactive.ID))
	c := f.customer(t, "Eva", "eva@example.com")

	tests := []struct {
		name    string
		input   *CreateInvoiceInput
		checkFn func(error) bool
		message string
	}{
		{
			name:    "unknown customer",
			input:   &CreateInvoiceInput{CustomerID: uuid.New(), Lines: []InvoiceLineInput{lineInput(p, 1)}},
			checkFn: apperror.IsNotFound,
			message: "Customer not found",
		},
		{
			name:    "no lines",
			input:   &CreateInvoiceInput{CustomerID: c.ID},
			checkFn: apperror.IsValidation,
			message: "Invoice must have at least one line",
		},
		{
			name:    "inactive product",
			input:   &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(inactive, 1)}},
			checkFn: apperror.IsValidation,
			message: "Product with ID " + inactive.ID.String() + " not found or inactive",
		},
		{
			name:    "zero quantity",
			input:   &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(p, 0)}},
			checkFn: apperror.IsValidation,
			message: "Quantity must be at least 1",
		},
		{
			name: "discount above 100",
			input: &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{
				{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price, Discount: decimal.NewFromInt(101)},
			}},
			checkFn: apperror.IsValidation,
			message: "Discount must be between 0 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.invoices.CreateInvoice(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	assert.Equal(t, 10, f.stockOf(t, p.ID))
}

func TestDeleteInvoiceRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Laptop", "500.00", 10)
	c := f.customer(t, "Juan", "juan@example.com")

	inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CustomerID: c.ID,
		Lines:      []InvoiceLineInput{lineInput(p, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stockOf(t, p.ID))

	require.NoError(t, f.invoices.DeleteInvoice(ctx, inv.ID))
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	_, err = f.invoices.GetInvoice(ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))

	var lines int64
	require.NoError(t, f.db.Model(&entity.InvoiceLine{}).Where("invoice_id = ?", inv.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestDeleteInvoiceRestoresStockOfDeactivatedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Printer", "150.00", 4)
	c := f.customer(t, "Rosa", "rosa@example.com")

	inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(p, 4)}})
	require.NoError(t, err)
	require.NoError(t, f.products.DeleteProduct(ctx, p.ID))

	require.NoError(t, f.invoices.DeleteInvoice(ctx, inv.ID))
	assert.Equal(t, 4, f.stockOf(t, p.ID))
}

func TestDeletePaidInvoiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Laptop", "500.00", 10)
	c := f.customer(t, "Juan", "juan@example.com")

	inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(p, 2)}})
	require.NoError(t, err)
	require.NoError(t, f.invoices.UpdateInvoiceStatus(ctx, inv.ID, "Paid"))

	err = f.invoices.DeleteInvoice(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 8, f.stockOf(t, p.ID))

	got, err := f.invoices.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, got.Status)
}

func TestDeleteMissingInvoice(t *testing.T) {
	f := newFixture(t)
	err := f.invoices.DeleteInvoice(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateInvoiceStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Mouse", "20.00", 10)
	c := f.customer(t, "Juan", "juan@example.com")
	inv, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(p, 1)}})
	require.NoError(t, err)

	t.Run("accepts any casing", func(t *testing.T) {
		require.NoError(t, f.invoices.UpdateInvoiceStatus(ctx, inv.ID, "cancelled"))
		got, err := f.invoices.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.InvoiceStatusCancelled, got.Status)
		assert.Equal(t, 9, f.stockOf(t, p.ID))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		err := f.invoices.UpdateInvoiceStatus(ctx, inv.ID, "Refunded")
		assert.True(t, apperror.IsValidation(err))
		assert.Contains(t, err.Error(), "Valid values: Pending, Paid, Cancelled")
	})

	t.Run("unknown invoice", func(t *testing.T) {
		err := f.invoices.UpdateInvoiceStatus(ctx, uuid.New(), "Paid")
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestListAndSearchInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "Mouse", "20.00", 50)
	juan := f.customer(t, "Juan Pérez", "juan@example.com")
	maria := f.customer(t, "María García", "maria@example.com")

	for _, c := range []*entity.Customer{juan, maria, juan} {
		_, err := f.invoices.CreateInvoice(ctx, &CreateInvoiceInput{CustomerID: c.ID, Lines: []InvoiceLineInput{lineInput(p, 1)}})
		require.NoError(t, err)
	}

	page, err := f.invoices.ListInvoices(ctx, &domainRepo.InvoiceFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Len(t, page.Items, 3)

	byCustomer, err := f.invoices.ListCustomerInvoices(ctx, juan.ID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	found, err := f.invoices.SearchInvoices(ctx, "GARCÍA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, maria.ID, found[0].CustomerID)

	found, err = f.invoices.SearchInvoices(ctx, "inv-000003")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "INV-000003", found[0].InvoiceNumber)

	_, err = f.invoices.SearchInvoices(ctx, "  ")
	assert.True(t, apperror.IsValidation(err))
}
