package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/facturacion-api/internal/application/service"
	"github.com/sangkips/facturacion-api/internal/presentation/http/dto/response"
)

// ReportHandler handles sales reporting requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales handles the sales summary for a date range
func (h *ReportHandler) Sales(c *gin.Context) {
	dates, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), dates)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

// LowStock handles listing products at or below a stock threshold
func (h *ReportHandler) LowStock(c *gin.Context) {
	threshold, err := parseOptionalInt(c, "threshold")
	if err != nil {
		response.Error(c, err)
		return
	}

	products, err := h.reportService.GetLowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// TopCustomers handles ranking customers by paid total
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	dates, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	customers, err := h.reportService.GetTopCustomers(c.Request.Context(), dates)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top customers retrieved successfully", customers)
}

// DailyRevenue handles paid revenue per day
func (h *ReportHandler) DailyRevenue(c *gin.Context) {
	dates, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	revenue, err := h.reportService.GetDailyRevenue(c.Request.Context(), dates)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily revenue retrieved successfully", revenue)
}
