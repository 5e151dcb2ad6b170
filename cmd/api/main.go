package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/facturacion-api/internal/application/service"
	"github.com/sangkips/facturacion-api/internal/config"
	"github.com/sangkips/facturacion-api/internal/infrastructure/database"
	"github.com/sangkips/facturacion-api/internal/infrastructure/repository"
	"github.com/sangkips/facturacion-api/internal/presentation/http/handler"
	"github.com/sangkips/facturacion-api/internal/presentation/http/middleware"
	"github.com/sangkips/facturacion-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed demo catalogue
	if cfg.Database.Seed {
		if err := database.SeedDefaultData(db); err != nil {
			log.Printf("Warning: Failed to seed default data: %v", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactor := repository.NewTransactor(db)

	// Initialize services
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo, invoiceRepo)
	invoiceService := service.NewInvoiceService(transactor, invoiceRepo, customerRepo, productRepo, sequenceRepo, cfg.Invoice.TaxRate)
	reportService := service.NewReportService(reportRepo, productRepo, customerRepo, cfg.Reports.DegradeOnError, cfg.Reports.LowStockThreshold)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Report:   handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond(),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s (database: %s)", cfg.App.Env, cfg.Database.Driver)

	if err := router.Run(":" + port); err != nil {
		log.Printf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
