package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoiceLineCalculate(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		discount  string
		subTotal  string
		total     string
	}{
		{"no discount", 3, "29.99", "0", "89.97", "89.97"},
		{"ten percent", 2, "100", "10", "200", "180"},
		{"full discount", 1, "50", "100", "50", "0"},
		{"rounds half up", 1, "0.05", "50", "0.05", "0.03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := InvoiceLine{Quantity: tt.quantity, UnitPrice: dec(tt.unitPrice), Discount: dec(tt.discount)}
			l.Calculate()
			assert.True(t, l.SubTotal.Equal(dec(tt.subTotal)), "subtotal %s", l.SubTotal)
			assert.True(t, l.Total.Equal(dec(tt.total)), "total %s", l.Total)
		})
	}
}

func TestInvoiceApplyTotals(t *testing.T) {
	inv := Invoice{Lines: []InvoiceLine{
		{Quantity: 3, UnitPrice: dec("599.99"), Discount: dec("0")},
		{Quantity: 2, UnitPrice: dec("29.99"), Discount: dec("10")},
	}}

	inv.ApplyTotals(dec("0.18"))

	// 1799.97 + 53.98
	assert.True(t, inv.SubTotal.Equal(dec("1853.95")), "subtotal %s", inv.SubTotal)
	assert.True(t, inv.Tax.Equal(dec("333.71")), "tax %s", inv.Tax)
	assert.True(t, inv.Total.Equal(inv.SubTotal.Add(inv.Tax)))

	sum := decimal.Zero
	for _, l := range inv.Lines {
		sum = sum.Add(l.Total)
	}
	assert.True(t, inv.SubTotal.Equal(sum))
}

func TestQuantitiesByProduct(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	inv := Invoice{Lines: []InvoiceLine{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 3},
	}}

	got := inv.QuantitiesByProduct()
	assert.Equal(t, 5, got[a])
	assert.Equal(t, 1, got[b])
}

func TestInvoiceJSONRendersAmountsAsNumbers(t *testing.T) {
	inv := Invoice{InvoiceNumber: "INV-000001", Status: enum.InvoiceStatusPending, Total: dec("118.00")}

	raw, err := json.Marshal(inv)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 118.0, out["total"])
	assert.Equal(t, "Pending", out["status"])
}

func TestProductCanSupply(t *testing.T) {
	p := Product{Stock: 5, IsActive: true}
	assert.True(t, p.CanSupply(5))
	assert.False(t, p.CanSupply(6))

	p.IsActive = false
	assert.False(t, p.CanSupply(1))
}
