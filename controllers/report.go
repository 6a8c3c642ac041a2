// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

// GetInvoiceList returns a paginated listing of invoices with their work
// order, customer and unit
func (rc *ReportController) GetInvoiceList(c *gin.Context) {
	filter := services.InvoiceListFilter{
		Number: c.Query("number"),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	filter.CompletedFrom = from
	filter.CompletedTo = to

	svc := services.NewReportService(config.DB)
	rows, total, err := svc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": rows,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// GetCostTotals returns the global gross and net billing totals
func (rc *ReportController) GetCostTotals(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	svc := services.NewReportService(config.DB)
	totals, err := svc.GetCostTotals(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// GetTipTotals returns distributed tip sums per employee
func (rc *ReportController) GetTipTotals(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	svc := services.NewReportService(config.DB)
	totals, err := svc.GetTipTotals(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// GetOverview returns the dashboard summary
func (rc *ReportController) GetOverview(c *gin.Context) {
	svc := services.NewReportService(config.DB)
	stats, err := svc.GetOverview(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseDateRange reads optional from/to query params in YYYY-MM-DD form.
// Responds with an error itself when a value is malformed.
func parseDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		// Include the whole day
		end := parsed.AddDate(0, 0, 1).Add(-time.Second)
		to = &end
	}
	return from, to, true
}
