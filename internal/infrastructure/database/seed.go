package database

import (
	"log"

	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedDefaultData inserts a sample catalog and customers into an empty database
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var productCount int64
	if err := db.Model(&entity.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		log.Println("Products already present, skipping seed")
		return nil
	}

	products := []entity.Product{
		{Name: "Laptop HP", Description: "Laptop HP Pavilion 15 pulgadas", Price: decimal.RequireFromString("599.99"), Stock: 10, Category: "Electrónicos"},
		{Name: "Mouse Logitech", Description: "Mouse inalámbrico Logitech M185", Price: decimal.RequireFromString("29.99"), Stock: 25, Category: "Accesorios"},
		{Name: "Teclado Mecánico", Description: "Teclado mecánico RGB", Price: decimal.RequireFromString("89.99"), Stock: 15, Category: "Accesorios"},
		{Name: "Monitor Samsung", Description: "Monitor Samsung 24 pulgadas Full HD", Price: decimal.RequireFromString("199.99"), Stock: 8, Category: "Electrónicos"},
		{Name: "Impresora Canon", Description: "Impresora multifuncional Canon", Price: decimal.RequireFromString("149.99"), Stock: 4, Category: "Oficina"},
	}
	for i := range products {
		products[i].IsActive = true
	}

	customers := []entity.Customer{
		{Name: "Juan Pérez", Email: "juan.perez@example.com", Phone: "555-0101", Address: "Av. Principal 123", DocumentNumber: "12345678"},
		{Name: "María García", Email: "maria.garcia@example.com", Phone: "555-0102", Address: "Calle Secundaria 456", DocumentNumber: "87654321"},
	}
	for i := range customers {
		customers[i].IsActive = true
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		return tx.Create(&customers).Error
	})
	if err != nil {
		return err
	}

	log.Printf("Seeded %d products and %d customers", len(products), len(customers))
	return nil
}
