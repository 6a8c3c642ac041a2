// services/workorder_service_test.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStorage satisfies ImageStorage without any network.
type fakeStorage struct {
	uploads int
}

func (f *fakeStorage) Upload(ctx context.Context, files []*multipart.FileHeader, customerName, unitSerial, workOrderCode string) ([]StoredImage, error) {
	f.uploads++
	stored := make([]StoredImage, 0, len(files))
	for i, fh := range files {
		stored = append(stored, StoredImage{
			ID:          fmt.Sprintf("stored-%d", i),
			FileName:    fh.Filename,
			MimeType:    "image/jpeg",
			ViewURL:     "https://media.test/view/" + fh.Filename,
			DownloadURL: "https://media.test/download/" + fh.Filename,
		})
	}
	return stored, nil
}

func (f *fakeStorage) Delete(ctx context.Context, id string) error { return nil }

func newWorkOrderService(db *gorm.DB) *WorkOrderService {
	return NewWorkOrderServiceWithStorage(db, &fakeStorage{})
}

func TestCreateWorkOrderMintsTypeScopedCode(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	repair, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	assert.Equal(t, "R-0001", repair.Code)
	assert.Equal(t, models.StatusCreated, repair.Status)
	assert.Equal(t, unit.CustomerID, repair.CustomerID)

	service, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)
	assert.Equal(t, "S-0001", service.Code)

	// Each type draws from its own counter.
	second, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	assert.Equal(t, "R-0002", second.Code)
}

func TestCreateWorkOrderUnknownUnit(t *testing.T) {
	db := newTestDB(t)
	svc := newWorkOrderService(db)

	_, err := svc.Create(context.Background(), CreateWorkOrderInput{
		UnitID: uuid.New(),
		Type:   models.TypeRepair,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignEmployeesSchedulesAndCopiesRoles(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	helper := seedEmployee(t, db, "Piotr", models.RoleHelper)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)

	order, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID, helper.ID})
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, order.Status)
	require.Len(t, order.Assignments, 2)
	assert.Equal(t, tech.ID, order.Assignments[0].EmployeeID)
	assert.Equal(t, models.RoleTechnician, order.Assignments[0].Role)
	assert.Equal(t, helper.ID, order.Assignments[1].EmployeeID)
	assert.Equal(t, models.RoleHelper, order.Assignments[1].Role)
	assert.Zero(t, order.Assignments[0].TipAmount)
	assert.Zero(t, order.EmployeeTipTotal)
}

func TestAssignEmployeesValidation(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)

	_, err = svc.AssignEmployees(ctx, order.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// An unknown employee rolls the whole replacement back.
	order, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID, uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, order.Assignments, 1)
	assert.Equal(t, tech.ID, order.Assignments[0].EmployeeID)
}

func TestAssignEmployeesCompletedOrderIsImmutable(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestReassignResetsTips(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	other := seedEmployee(t, db, "Tomek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)
	order, err = svc.DistributeTip(ctx, order.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.EmployeeTipTotal)

	order, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{other.ID})
	require.NoError(t, err)
	assert.Zero(t, order.EmployeeTipTotal)
	require.Len(t, order.Assignments, 1)
	assert.Zero(t, order.Assignments[0].TipAmount)
}

func TestCompleteServiceOrderCascades(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)

	completed, followUp, err := svc.Complete(ctx, order.ID)
	require.NoError(t, err)

	today := utils.BeginningOfDay(time.Now())
	next := utils.AddMonths(today, 3)

	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedDate)
	assert.True(t, completed.CompletedDate.Equal(today))

	var reloaded models.Unit
	require.NoError(t, db.First(&reloaded, "id = ?", unit.ID).Error)
	require.NotNil(t, reloaded.LastMaintenanceDate)
	require.NotNil(t, reloaded.NextMaintenanceDate)
	assert.True(t, reloaded.LastMaintenanceDate.Equal(today))
	assert.True(t, reloaded.NextMaintenanceDate.Equal(next))

	require.NotNil(t, followUp)
	assert.Equal(t, models.TypeService, followUp.Type)
	assert.Equal(t, models.StatusCreated, followUp.Status)
	assert.Equal(t, unit.ID, followUp.UnitID)
	assert.Equal(t, unit.CustomerID, followUp.CustomerID)
	require.NotNil(t, followUp.ScheduledDate)
	assert.True(t, followUp.ScheduledDate.Equal(next))
	assert.Equal(t, "S-0002", followUp.Code)
}

func TestCompleteRepairSkipsFollowUp(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)

	completed, followUp, err := svc.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.Nil(t, followUp)

	// The unit's maintenance window still advances.
	var reloaded models.Unit
	require.NoError(t, db.First(&reloaded, "id = ?", unit.ID).Error)
	require.NotNil(t, reloaded.NextMaintenanceDate)
}

func TestCompletePreconditions(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)

	// Not yet scheduled.
	_, _, err = svc.Complete(ctx, order.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	reloaded, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, reloaded.Status)
	assert.Nil(t, reloaded.CompletedDate)

	var unitAfter models.Unit
	require.NoError(t, db.First(&unitAfter, "id = ?", unit.ID).Error)
	assert.Nil(t, unitAfter.LastMaintenanceDate)

	// Schedule, complete, then complete again.
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, order.ID)
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, order.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// The rejected retry must not mint a second follow-up.
	var serviceOrders int64
	require.NoError(t, db.Model(&models.WorkOrder{}).
		Where("type = ?", models.TypeService).Count(&serviceOrders).Error)
	assert.Equal(t, int64(2), serviceOrders)
}

func TestDistributeTipSplitsByRole(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	techA := seedEmployee(t, db, "Marek", models.RoleTechnician)
	techB := seedEmployee(t, db, "Tomek", models.RoleTechnician)
	helper := seedEmployee(t, db, "Piotr", models.RoleHelper)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{techA.ID, techB.ID, helper.ID})
	require.NoError(t, err)

	order, err = svc.DistributeTip(ctx, order.ID, 300)
	require.NoError(t, err)

	assert.Equal(t, 300.0, order.EmployeeTipTotal)
	require.Len(t, order.Assignments, 3)
	assert.Equal(t, 90.0, order.Assignments[0].TipAmount)
	assert.Equal(t, 90.0, order.Assignments[1].TipAmount)
	assert.Equal(t, 120.0, order.Assignments[2].TipAmount)
}

func TestDistributeTipAdminSplitsWithTechnicians(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	admin := seedEmployee(t, db, "Ewa", models.RoleAdmin)
	helper := seedEmployee(t, db, "Piotr", models.RoleHelper)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{admin.ID, helper.ID})
	require.NoError(t, err)

	order, err = svc.DistributeTip(ctx, order.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 60.0, order.Assignments[0].TipAmount)
	assert.Equal(t, 40.0, order.Assignments[1].TipAmount)
}

func TestDistributeTipRejectsNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)

	_, err = svc.DistributeTip(ctx, order.ID, -10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateDetailsTypeChangeRegeneratesCode(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	assert.Equal(t, "R-0001", order.Code)

	newType := models.TypeService
	order, err = svc.UpdateDetails(ctx, order.ID, UpdateWorkOrderInput{Type: &newType})
	require.NoError(t, err)
	assert.Equal(t, models.TypeService, order.Type)
	assert.Equal(t, "S-0001", order.Code)
}

func TestUpdateDetailsTypeImmutableOnceCompleted(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, order.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, order.ID)
	require.NoError(t, err)

	newType := models.TypeService
	_, err = svc.UpdateDetails(ctx, order.ID, UpdateWorkOrderInput{Type: &newType})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestUpdateDetailsRescheduleSyncsUnitForecast(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)

	when := time.Now().AddDate(0, 1, 0)
	order, err = svc.UpdateDetails(ctx, order.ID, UpdateWorkOrderInput{ScheduledDate: &when})
	require.NoError(t, err)

	want := utils.BeginningOfDay(when)
	require.NotNil(t, order.ScheduledDate)
	assert.True(t, order.ScheduledDate.Equal(want))

	var reloaded models.Unit
	require.NoError(t, db.First(&reloaded, "id = ?", unit.ID).Error)
	require.NotNil(t, reloaded.NextMaintenanceDate)
	assert.True(t, reloaded.NextMaintenanceDate.Equal(want))
}

func TestUploadImagesAppendsMetadata(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	uploader := seedEmployee(t, db, "Marek", models.RoleTechnician)
	storage := &fakeStorage{}
	svc := NewWorkOrderServiceWithStorage(db, storage)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)

	files := []*multipart.FileHeader{
		{Filename: "before.jpg"},
		{Filename: "after.jpg"},
	}
	images, err := svc.UploadImages(ctx, order.ID, files, uploader.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 1, storage.uploads)
	assert.Equal(t, "before.jpg", images[0].FileName)
	assert.Equal(t, "https://media.test/view/before.jpg", images[0].ViewURL)
	assert.Equal(t, uploader.ID, images[0].UploadedByID)

	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, order.Images, 2)
	// Upload never touches the lifecycle.
	assert.Equal(t, models.StatusCreated, order.Status)
}

func TestUploadImagesRequiresFiles(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)

	_, err = svc.UploadImages(ctx, order.ID, nil, uuid.New())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	_, unit := seedCustomerUnit(t, db)
	tech := seedEmployee(t, db, "Marek", models.RoleTechnician)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeRepair})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateWorkOrderInput{UnitID: unit.ID, Type: models.TypeService})
	require.NoError(t, err)
	_, err = svc.AssignEmployees(ctx, first.ID, []uuid.UUID{tech.ID})
	require.NoError(t, err)

	scheduled := models.StatusScheduled
	orders, err := svc.List(ctx, &scheduled)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
