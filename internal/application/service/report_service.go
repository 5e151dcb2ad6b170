package service

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/domain/entity"
	"github.com/sangkips/facturacion-api/internal/domain/repository"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/sangkips/facturacion-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	topProductsLimit  = 5
	topCustomersLimit = 10
)

// ReportService aggregates paid invoices into sales reports
type ReportService struct {
	reportRepo        repository.ReportRepository
	productRepo       repository.ProductRepository
	customerRepo      repository.CustomerRepository
	degradeOnError    bool
	lowStockThreshold int
	now               func() time.Time
}

// NewReportService creates a new report service. When degradeOnError is set,
// failed queries are logged and an empty report is returned instead.
func NewReportService(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	degradeOnError bool,
	lowStockThreshold int,
) *ReportService {
	return &ReportService{
		reportRepo:        reportRepo,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		degradeOnError:    degradeOnError,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// DateRange bounds a report. Nil bounds take the report's default window.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// SalesReport summarises paid invoices in a period
type SalesReport struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalInvoices  int             `json:"total_invoices"`
	TotalProducts  int64           `json:"total_products"`
	TotalCustomers int64           `json:"total_customers"`
	TopProducts    []ProductSales  `json:"top_products"`
	MonthlySales   []MonthlySales  `json:"monthly_sales"`
}

// ProductSales is the quantity and revenue of one product
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// MonthlySales is the paid total of one calendar month
type MonthlySales struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	MonthName    string          `json:"month_name"`
	Sales        decimal.Decimal `json:"sales"`
	InvoiceCount int             `json:"invoice_count"`
}

// CustomerSales is the purchase history of one customer
type CustomerSales struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	TotalPurchases    decimal.Decimal `json:"total_purchases"`
	InvoiceCount      int             `json:"invoice_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// DailyRevenue is the paid total of one calendar day
type DailyRevenue struct {
	Date              string          `json:"date"`
	Revenue           decimal.Decimal `json:"revenue"`
	InvoiceCount      int             `json:"invoice_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// resolve fills in missing bounds. A missing start is the window before end.
func (s *ReportService) resolve(r DateRange, years, months, days int) (time.Time, time.Time, error) {
	end := s.now().UTC()
	if r.End != nil {
		end = r.End.UTC()
	}
	start := end.AddDate(-years, -months, -days)
	if r.Start != nil {
		start = r.Start.UTC()
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperror.NewFieldValidationError("start_date", "Start date must not be after end date")
	}
	return start, end, nil
}

func (s *ReportService) degrade(report string, err error) error {
	if !s.degradeOnError {
		return err
	}
	log.Printf("Report %s failed, returning empty result: %v", report, err)
	return nil
}

// GetSalesReport totals paid invoices in the range, defaulting to the last 12 months
func (s *ReportService) GetSalesReport(ctx context.Context, r DateRange) (*SalesReport, error) {
	start, end, err := s.resolve(r, 0, 12, 0)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		StartDate:    start,
		EndDate:      end,
		TotalSales:   decimal.Zero,
		TopProducts:  []ProductSales{},
		MonthlySales: []MonthlySales{},
	}

	if report.TotalProducts, err = s.productRepo.CountActive(ctx); err != nil {
		if err := s.degrade("sales", err); err != nil {
			return nil, err
		}
	}
	if report.TotalCustomers, err = s.customerRepo.CountActive(ctx); err != nil {
		if err := s.degrade("sales", err); err != nil {
			return nil, err
		}
	}

	invoices, err := s.reportRepo.PaidInvoices(ctx, start, end)
	if err != nil {
		return report, s.degrade("sales", err)
	}
	lines, err := s.reportRepo.PaidInvoiceLines(ctx, start, end)
	if err != nil {
		return report, s.degrade("sales", err)
	}

	report.TotalInvoices = len(invoices)
	report.MonthlySales = monthlySales(invoices)
	for _, inv := range invoices {
		report.TotalSales = report.TotalSales.Add(inv.Total)
	}
	report.TopProducts = topProducts(lines, topProductsLimit)

	return report, nil
}

func monthlySales(invoices []repository.PaidInvoiceRow) []MonthlySales {
	index := make(map[int]int)
	out := []MonthlySales{}
	for _, inv := range invoices {
		d := inv.InvoiceDate.UTC()
		key := d.Year()*100 + int(d.Month())
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, MonthlySales{
				Year:      d.Year(),
				Month:     int(d.Month()),
				MonthName: fmt.Sprintf("%s %d", d.Month(), d.Year()),
				Sales:     decimal.Zero,
			})
		}
		out[i].Sales = out[i].Sales.Add(inv.Total)
		out[i].InvoiceCount++
	}
	slices.SortFunc(out, func(a, b MonthlySales) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})
	return out
}

func topProducts(lines []repository.PaidLineRow, limit int) []ProductSales {
	index := make(map[uuid.UUID]int)
	out := []ProductSales{}
	for _, l := range lines {
		i, ok := index[l.ProductID]
		if !ok {
			i = len(out)
			index[l.ProductID] = i
			out = append(out, ProductSales{ProductID: l.ProductID, ProductName: l.ProductName, Revenue: decimal.Zero})
		}
		out[i].QuantitySold += l.Quantity
		out[i].Revenue = out[i].Revenue.Add(l.Total)
	}
	slices.SortFunc(out, func(a, b ProductSales) int {
		return cmp.Or(b.Revenue.Cmp(a.Revenue), cmp.Compare(a.ProductName, b.ProductName))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetLowStockProducts lists active products with stock at or below threshold,
// lowest stock first. A nil threshold uses the configured default.
func (s *ReportService) GetLowStockProducts(ctx context.Context, threshold *int) ([]entity.Product, error) {
	limit := s.lowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit < 0 {
		return nil, apperror.NewFieldValidationError("threshold", "Threshold cannot be negative")
	}

	products, err := s.productRepo.ListLowStock(ctx, limit)
	if err != nil {
		return []entity.Product{}, s.degrade("low-stock", err)
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// GetTopCustomers ranks customers by paid total, defaulting to the last 12 months
func (s *ReportService) GetTopCustomers(ctx context.Context, r DateRange) ([]CustomerSales, error) {
	start, end, err := s.resolve(r, 0, 12, 0)
	if err != nil {
		return nil, err
	}

	invoices, err := s.reportRepo.PaidInvoices(ctx, start, end)
	if err != nil {
		return []CustomerSales{}, s.degrade("top-customers", err)
	}

	index := make(map[uuid.UUID]int)
	out := []CustomerSales{}
	for _, inv := range invoices {
		i, ok := index[inv.CustomerID]
		if !ok {
			i = len(out)
			index[inv.CustomerID] = i
			out = append(out, CustomerSales{
				CustomerID:     inv.CustomerID,
				CustomerName:   inv.CustomerName,
				CustomerEmail:  inv.CustomerEmail,
				TotalPurchases: decimal.Zero,
			})
		}
		out[i].TotalPurchases = out[i].TotalPurchases.Add(inv.Total)
		out[i].InvoiceCount++
	}
	for i := range out {
		out[i].AverageOrderValue = utils.Average(out[i].TotalPurchases, out[i].InvoiceCount)
	}

	slices.SortFunc(out, func(a, b CustomerSales) int {
		return cmp.Or(b.TotalPurchases.Cmp(a.TotalPurchases), cmp.Compare(a.CustomerName, b.CustomerName))
	})
	if len(out) > topCustomersLimit {
		out = out[:topCustomersLimit]
	}
	return out, nil
}

// GetDailyRevenue totals paid invoices per calendar day, defaulting to the last 30 days
func (s *ReportService) GetDailyRevenue(ctx context.Context, r DateRange) ([]DailyRevenue, error) {
	start, end, err := s.resolve(r, 0, 0, 30)
	if err != nil {
		return nil, err
	}

	invoices, err := s.reportRepo.PaidInvoices(ctx, start, end)
	if err != nil {
		return []DailyRevenue{}, s.degrade("daily-revenue", err)
	}

	index := make(map[string]int)
	out := []DailyRevenue{}
	for _, inv := range invoices {
		day := inv.InvoiceDate.UTC().Format(utils.DateLayout)
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, DailyRevenue{Date: day, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(inv.Total)
		out[i].InvoiceCount++
	}
	for i := range out {
		out[i].AverageOrderValue = utils.Average(out[i].Revenue, out[i].InvoiceCount)
	}

	slices.SortFunc(out, func(a, b DailyRevenue) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out, nil
}
