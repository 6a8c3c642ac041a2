// services/report_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"fieldpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedBilledOrder creates a completed work order with a closed, numbered
// invoice attached. Report queries only read, so rows are written directly.
func seedBilledOrder(t *testing.T, db *gorm.DB, unit models.Unit, code, number string, completed time.Time, gross, net float64) models.WorkOrder {
	t.Helper()

	invoice := models.Invoice{
		Number:        &number,
		Status:        models.InvoiceClosed,
		GrandTotal:    gross,
		GrandNetTotal: net,
	}
	require.NoError(t, db.Create(&invoice).Error)

	order := models.WorkOrder{
		Code:          code,
		Type:          models.TypeService,
		Status:        models.StatusCompleted,
		CompletedDate: &completed,
		UnitID:        unit.ID,
		CustomerID:    unit.CustomerID,
		InvoiceID:     &invoice.ID,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestListInvoicesFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	customer, unit := seedCustomerUnit(t, db)
	seedBilledOrder(t, db, unit, "S-0001", "I-0001", date(2026, time.January, 10), 100, 80)
	seedBilledOrder(t, db, unit, "S-0002", "I-0002", date(2026, time.February, 10), 50, 40)
	seedBilledOrder(t, db, unit, "S-0003", "I-0003", date(2026, time.March, 10), 75, 60)
	svc := NewReportService(db)
	ctx := context.Background()

	rows, total, err := svc.ListInvoices(ctx, InvoiceListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	// Newest number first.
	assert.Equal(t, "I-0003", *rows[0].Number)
	assert.Equal(t, customer.Name, rows[0].CustomerName)
	assert.Equal(t, unit.SerialNumber, rows[0].UnitSerial)

	rows, total, err = svc.ListInvoices(ctx, InvoiceListFilter{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "I-0001", *rows[0].Number)

	rows, total, err = svc.ListInvoices(ctx, InvoiceListFilter{Number: "I-0002"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "S-0002", rows[0].WorkOrderCode)
	assert.Equal(t, 50.0, rows[0].GrandTotal)
}

func TestListInvoicesCompletionDateBounds(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	seedBilledOrder(t, db, unit, "S-0001", "I-0001", date(2026, time.January, 10), 100, 80)
	seedBilledOrder(t, db, unit, "S-0002", "I-0002", date(2026, time.February, 10), 50, 40)
	svc := NewReportService(db)

	from := date(2026, time.February, 1)
	rows, total, err := svc.ListInvoices(context.Background(), InvoiceListFilter{CompletedFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "I-0002", *rows[0].Number)
}

func TestGetCostTotals(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	seedBilledOrder(t, db, unit, "S-0001", "I-0001", date(2026, time.January, 10), 100, 80)
	seedBilledOrder(t, db, unit, "S-0002", "I-0002", date(2026, time.February, 10), 50, 40)
	svc := NewReportService(db)
	ctx := context.Background()

	totals, err := svc.GetCostTotals(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, totals.GrossTotal)
	assert.Equal(t, 120.0, totals.NetTotal)

	from := date(2026, time.February, 1)
	totals, err = svc.GetCostTotals(ctx, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, totals.GrossTotal)
	assert.Equal(t, 40.0, totals.NetTotal)
}

func TestGetTipTotals(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	helper := seedEmployee(t, db, "Piotr", models.RoleHelper)
	ctx := context.Background()

	january := date(2026, time.January, 10)
	february := date(2026, time.February, 10)
	first := models.WorkOrder{
		Code: "S-0001", Type: models.TypeService, Status: models.StatusCompleted,
		CompletedDate: &january, UnitID: unit.ID, CustomerID: unit.CustomerID,
	}
	require.NoError(t, db.Create(&first).Error)
	second := models.WorkOrder{
		Code: "S-0002", Type: models.TypeService, Status: models.StatusCompleted,
		CompletedDate: &february, UnitID: unit.ID, CustomerID: unit.CustomerID,
	}
	require.NoError(t, db.Create(&second).Error)

	assignments := []models.WorkOrderAssignment{
		{WorkOrderID: first.ID, EmployeeID: tech.ID, Role: models.RoleTechnician, TipAmount: 60},
		{WorkOrderID: first.ID, EmployeeID: helper.ID, Role: models.RoleHelper, TipAmount: 40},
		{WorkOrderID: second.ID, EmployeeID: tech.ID, Role: models.RoleTechnician, TipAmount: 30},
	}
	for i := range assignments {
		require.NoError(t, db.Create(&assignments[i]).Error)
	}

	svc := NewReportService(db)
	rows, err := svc.GetTipTotals(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Highest earner first.
	assert.Equal(t, tech.ID, rows[0].EmployeeID)
	assert.Equal(t, 90.0, rows[0].TipTotal)
	assert.Equal(t, helper.ID, rows[1].EmployeeID)
	assert.Equal(t, 40.0, rows[1].TipTotal)

	from := date(2026, time.February, 1)
	rows, err = svc.GetTipTotals(ctx, &from, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tech.ID, rows[0].EmployeeID)
	assert.Equal(t, 30.0, rows[0].TipTotal)
}

func TestGetOverview(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := NewReportService(db)
	now := date(2026, time.March, 15)

	// One open order, one completed this month with a billed invoice.
	open := models.WorkOrder{
		Code: "S-0001", Type: models.TypeService, Status: models.StatusScheduled,
		UnitID: unit.ID, CustomerID: unit.CustomerID,
	}
	require.NoError(t, db.Create(&open).Error)
	seedBilledOrder(t, db, unit, "S-0002", "I-0001", date(2026, time.March, 10), 200, 160)

	soon := now.AddDate(0, 0, 3)
	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", unit.ID).
		Update("next_maintenance_date", soon).Error)

	stats, err := svc.GetOverview(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.ActiveUnits)
	assert.Equal(t, int64(1), stats.OpenWorkOrders)
	assert.Equal(t, int64(1), stats.CompletedThisMonth)
	assert.Equal(t, 200.0, stats.BilledThisMonth)
	assert.Equal(t, int64(1), stats.UpcomingMaintenance)
}
