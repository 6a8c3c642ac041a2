// services/report_service.go
package services

import (
	"context"
	"time"

	"fieldpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService is read-only: aggregations over work orders and invoices.
// Nothing here mutates state.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type InvoiceListFilter struct {
	// Number is a free-text match on the invoice number.
	Number string
	// CompletedFrom/CompletedTo bound the linked work order's completion date.
	CompletedFrom *time.Time
	CompletedTo   *time.Time

	Page  int
	Limit int
}

type InvoiceSummary struct {
	InvoiceID     uuid.UUID  `json:"invoiceId"`
	Number        *string    `json:"number"`
	Status        string     `json:"status"`
	WorkOrderCode string     `json:"workOrderCode"`
	CustomerName  string     `json:"customerName"`
	UnitSerial    string     `json:"unitSerial"`
	CompletedDate *time.Time `json:"completedDate"`
	GrandTotal    float64    `json:"grandTotal"`
	GrandNetTotal float64    `json:"grandNetTotal"`
}

// ListInvoices returns a page of invoice rows joined to their work order,
// customer and unit, newest invoice number first.
func (r *ReportService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceSummary, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	query := r.db.WithContext(ctx).Table("invoices").
		Select(`invoices.id as invoice_id, invoices.number, invoices.status,
			work_orders.code as work_order_code, customers.name as customer_name,
			units.serial_number as unit_serial, work_orders.completed_date,
			invoices.grand_total, invoices.grand_net_total`).
		Joins("JOIN work_orders ON work_orders.invoice_id = invoices.id").
		Joins("JOIN customers ON customers.id = work_orders.customer_id").
		Joins("JOIN units ON units.id = work_orders.unit_id").
		Where("invoices.deleted_at IS NULL AND work_orders.deleted_at IS NULL")

	if filter.Number != "" {
		query = query.Where("invoices.number LIKE ?", "%"+filter.Number+"%")
	}
	if filter.CompletedFrom != nil {
		query = query.Where("work_orders.completed_date >= ?", *filter.CompletedFrom)
	}
	if filter.CompletedTo != nil {
		query = query.Where("work_orders.completed_date <= ?", *filter.CompletedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []InvoiceSummary
	err := query.Order("invoices.number DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type CostTotals struct {
	GrossTotal float64 `json:"grossTotal"`
	NetTotal   float64 `json:"netTotal"`
}

// GetCostTotals sums gross and net grand totals over all invoices, optionally
// bounded by the linked work order's completion date.
func (r *ReportService) GetCostTotals(ctx context.Context, from, to *time.Time) (CostTotals, error) {
	var totals CostTotals

	// EXISTS keeps one row per invoice even when several work orders share it.
	exists := "EXISTS (SELECT 1 FROM work_orders wo WHERE wo.invoice_id = invoices.id AND wo.deleted_at IS NULL"
	args := []interface{}{}
	if from != nil {
		exists += " AND wo.completed_date >= ?"
		args = append(args, *from)
	}
	if to != nil {
		exists += " AND wo.completed_date <= ?"
		args = append(args, *to)
	}
	exists += ")"

	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where(exists, args...).
		Select("COALESCE(SUM(grand_total), 0) as gross_total, COALESCE(SUM(grand_net_total), 0) as net_total").
		Scan(&totals).Error
	return totals, err
}

type EmployeeTipTotal struct {
	EmployeeID uuid.UUID `json:"employeeId"`
	Name       string    `json:"name"`
	TipTotal   float64   `json:"tipTotal"`
}

// GetTipTotals sums distributed tips per employee, optionally bounded by the
// work order's completion date.
func (r *ReportService) GetTipTotals(ctx context.Context, from, to *time.Time) ([]EmployeeTipTotal, error) {
	query := r.db.WithContext(ctx).Table("work_order_assignments").
		Select("employees.id as employee_id, employees.name, COALESCE(SUM(work_order_assignments.tip_amount), 0) as tip_total").
		Joins("JOIN employees ON employees.id = work_order_assignments.employee_id").
		Joins("JOIN work_orders ON work_orders.id = work_order_assignments.work_order_id").
		Where("work_orders.deleted_at IS NULL AND employees.deleted_at IS NULL").
		Group("employees.id, employees.name").
		Order("tip_total DESC")

	if from != nil {
		query = query.Where("work_orders.completed_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("work_orders.completed_date <= ?", *to)
	}

	var rows []EmployeeTipTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OverviewStats is the dashboard summary for the field operation.
type OverviewStats struct {
	TotalCustomers      int64   `json:"totalCustomers"`
	ActiveUnits         int64   `json:"activeUnits"`
	OpenWorkOrders      int64   `json:"openWorkOrders"`
	CompletedThisMonth  int64   `json:"completedThisMonth"`
	BilledThisMonth     float64 `json:"billedThisMonth"`
	UpcomingMaintenance int64   `json:"upcomingMaintenance"`
}

// GetOverview returns quick counts for the dashboard.
func (r *ReportService) GetOverview(ctx context.Context, now time.Time) (OverviewStats, error) {
	var stats OverviewStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Unit{}).Where("status = ?", models.UnitActive).
		Count(&stats.ActiveUnits).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.WorkOrder{}).
		Where("status IN ?", []models.WorkOrderStatus{models.StatusCreated, models.StatusScheduled}).
		Count(&stats.OpenWorkOrders).Error; err != nil {
		return stats, err
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.WorkOrder{}).
		Where("status = ? AND completed_date >= ?", models.StatusCompleted, firstOfMonth).
		Count(&stats.CompletedThisMonth).Error; err != nil {
		return stats, err
	}

	if err := db.Model(&models.Invoice{}).
		Where("EXISTS (SELECT 1 FROM work_orders wo WHERE wo.invoice_id = invoices.id AND wo.deleted_at IS NULL AND wo.completed_date >= ?)", firstOfMonth).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&stats.BilledThisMonth).Error; err != nil {
		return stats, err
	}

	inSevenDays := now.AddDate(0, 0, 7)
	if err := db.Model(&models.Unit{}).
		Where("status = ? AND next_maintenance_date BETWEEN ? AND ?", models.UnitActive, now, inSevenDays).
		Count(&stats.UpcomingMaintenance).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
