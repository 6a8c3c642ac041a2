// services/testutil_test.go
package services

import (
	"testing"

	"fieldpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema and the
// sequence counters provisioned.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps all writers on the same in-memory database
	// and serializes concurrent statements.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Unit{},
		&models.Employee{},
		&models.WorkOrder{},
		&models.WorkOrderAssignment{},
		&models.WorkOrderImage{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.SequenceCounter{},
		&models.ReminderLog{},
	))
	require.NoError(t, ProvisionSequences(db))
	return db
}

func seedCustomerUnit(t *testing.T, db *gorm.DB) (models.Customer, models.Unit) {
	t.Helper()

	customer := models.Customer{
		Name:  "Anna Nowak",
		Phone: "+48" + uuid.NewString()[:9],
		Email: "anna@example.com",
	}
	require.NoError(t, db.Create(&customer).Error)

	unit := models.Unit{
		CustomerID:   customer.ID,
		Brand:        "Daikin",
		ModelName:    "FTXM35",
		SerialNumber: "SN-" + uuid.NewString()[:8],
		Status:       models.UnitActive,
	}
	require.NoError(t, db.Create(&unit).Error)
	return customer, unit
}

func seedEmployee(t *testing.T, db *gorm.DB, name string, role models.EmployeeRole) models.Employee {
	t.Helper()

	employee := models.Employee{
		Name:     name,
		Email:    uuid.NewString()[:8] + "@fieldpro.test",
		Password: "changeme123",
		Role:     role,
	}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}
