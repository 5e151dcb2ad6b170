package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/enum"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a sale to a customer. It owns its lines.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:20;uniqueIndex;not null" json:"invoice_number"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	InvoiceDate   time.Time          `gorm:"not null;index" json:"invoice_date"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	SubTotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null" json:"sub_total"`
	Tax           decimal.Decimal    `gorm:"type:decimal(18,2);not null" json:"tax"`
	Total         decimal.Decimal    `gorm:"type:decimal(18,2);not null" json:"total"`
	Notes         string             `gorm:"size:500" json:"notes,omitempty"`
	Status        enum.InvoiceStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// ApplyTotals recomputes every line and derives the invoice amounts from them.
// taxRate is a fraction, e.g. 0.18.
func (i *Invoice) ApplyTotals(taxRate decimal.Decimal) {
	subTotal := decimal.Zero
	for idx := range i.Lines {
		i.Lines[idx].Calculate()
		subTotal = subTotal.Add(i.Lines[idx].Total)
	}
	i.SubTotal = subTotal
	i.Tax = utils.RoundMoney(subTotal.Mul(taxRate))
	i.Total = i.SubTotal.Add(i.Tax)
}

// IsPaid reports whether the invoice has been settled
func (i *Invoice) IsPaid() bool {
	return i.Status == enum.InvoiceStatusPaid
}

// QuantitiesByProduct sums line quantities per product
func (i *Invoice) QuantitiesByProduct() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(i.Lines))
	for _, l := range i.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// InvoiceLine is one product entry within an invoice
type InvoiceLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	LineNumber int             `gorm:"not null" json:"line_number"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	SubTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"sub_total"`
	Discount   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice line
func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLine model
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Calculate derives SubTotal and Total from quantity, unit price and discount percent
func (l *InvoiceLine) Calculate() {
	l.SubTotal = utils.RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	discount := utils.PercentOf(l.SubTotal, l.Discount)
	l.Total = utils.RoundMoney(l.SubTotal.Sub(discount))
}

// InvoiceSequence holds the last allocated value of a named counter
type InvoiceSequence struct {
	Name      string    `gorm:"size:50;primary_key" json:"name"`
	LastValue int64     `gorm:"not null" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
