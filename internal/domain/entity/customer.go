package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDocumentType is used when a customer is created without one
const DefaultDocumentType = "DNI"

// Customer represents a billable party
type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"size:100;not null;index" json:"name"`
	Email          string    `gorm:"size:100;not null;index" json:"email"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Address        string    `gorm:"size:200" json:"address"`
	DocumentType   string    `gorm:"size:20;not null" json:"document_type"`
	DocumentNumber string    `gorm:"size:20;index" json:"document_number"`
	IsActive       bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.DocumentType == "" {
		c.DocumentType = DefaultDocumentType
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
