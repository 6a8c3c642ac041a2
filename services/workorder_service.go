// services/workorder_service.go
package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkOrderService owns the job lifecycle: Created -> Scheduled -> Completed,
// assignment, tip distribution, evidence images and the follow-up rule.
// Every multi-entity cascade runs inside a single database transaction, so a
// crash can never leave the unit's forecast advanced without its follow-up
// job (or vice versa).
type WorkOrderService struct {
	db      *gorm.DB
	storage ImageStorage
}

func NewWorkOrderService(db *gorm.DB) *WorkOrderService {
	return &WorkOrderService{db: db, storage: NewMediaClient()}
}

// NewWorkOrderServiceWithStorage lets callers swap the image-storage
// collaborator (used by tests).
func NewWorkOrderServiceWithStorage(db *gorm.DB, storage ImageStorage) *WorkOrderService {
	return &WorkOrderService{db: db, storage: storage}
}

type CreateWorkOrderInput struct {
	UnitID        uuid.UUID
	Type          models.WorkOrderType
	ScheduledDate *time.Time
	Notes         string
}

// Create handles manual repair/installation intake. The code is minted from
// the sequence category matching the type.
func (s *WorkOrderService) Create(ctx context.Context, input CreateWorkOrderInput) (*models.WorkOrder, error) {
	category, err := SequenceCategoryFor(input.Type)
	if err != nil {
		return nil, err
	}

	var unit models.Unit
	if err := s.db.WithContext(ctx).Preload("Customer").
		First(&unit, "id = ?", input.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("unit %s", input.UnitID)
		}
		return nil, err
	}
	if unit.Customer.ID == uuid.Nil {
		return nil, notFoundf("customer for unit %s", input.UnitID)
	}

	var order models.WorkOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		value, err := NextSequence(tx, category)
		if err != nil {
			return err
		}
		order = models.WorkOrder{
			Code:          utils.FormatCode(category, value),
			Type:          input.Type,
			Status:        models.StatusCreated,
			ScheduledDate: input.ScheduledDate,
			UnitID:        unit.ID,
			CustomerID:    unit.CustomerID,
			Notes:         input.Notes,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AssignEmployees replaces the assignment list wholesale. A Created order
// becomes Scheduled; a Completed order rejects the change. Tip amounts reset
// to zero until the next tip distribution.
func (s *WorkOrderService) AssignEmployees(ctx context.Context, workOrderID uuid.UUID, employeeIDs []uuid.UUID) (*models.WorkOrder, error) {
	if len(employeeIDs) == 0 {
		return nil, validationf("at least one employee is required")
	}

	order, err := s.load(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCompleted {
		return nil, preconditionf("work order %s is completed, assignments are immutable", order.Code)
	}

	var employees []models.Employee
	if err := s.db.WithContext(ctx).Find(&employees, "id IN ?", employeeIDs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", order.ID).
			Delete(&models.WorkOrderAssignment{}).Error; err != nil {
			return err
		}
		for i, id := range employeeIDs {
			employee, ok := byID[id]
			if !ok {
				return notFoundf("employee %s", id)
			}
			assignment := models.WorkOrderAssignment{
				WorkOrderID: order.ID,
				EmployeeID:  employee.ID,
				Role:        employee.Role,
				TipAmount:   0,
				Position:    i,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}

		status := order.Status
		if status == models.StatusCreated {
			status = models.StatusScheduled
		}
		return tx.Model(&models.WorkOrder{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"employee_tip_total": 0,
				"status":             status,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, workOrderID)
}

type UpdateWorkOrderInput struct {
	ScheduledDate *time.Time
	Type          *models.WorkOrderType
	InvoiceNumber *string
	Notes         *string
}

// UpdateDetails reschedules and corrects a work order. A changed scheduled
// date on a Service job moves the unit's next-maintenance forecast with it.
// Changing the type of a still-Created order discards the old code and mints
// a fresh one from the new type's sequence; codes are type-scoped.
func (s *WorkOrderService) UpdateDetails(ctx context.Context, workOrderID uuid.UUID, input UpdateWorkOrderInput) (*models.WorkOrder, error) {
	order, err := s.load(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Type != nil && *input.Type != order.Type {
			if order.Status == models.StatusCompleted {
				return preconditionf("work order %s is completed, type is immutable", order.Code)
			}
			category, err := SequenceCategoryFor(*input.Type)
			if err != nil {
				return err
			}
			if order.Status == models.StatusCreated {
				value, err := NextSequence(tx, category)
				if err != nil {
					return err
				}
				order.Code = utils.FormatCode(category, value)
			}
			order.Type = *input.Type
		}

		if input.ScheduledDate != nil && !sameDate(order.ScheduledDate, input.ScheduledDate) {
			scheduled := utils.BeginningOfDay(*input.ScheduledDate)
			order.ScheduledDate = &scheduled

			// The unit's forecast tracks the next scheduled service job,
			// not just the last completed one.
			if order.Type == models.TypeService {
				if err := tx.Model(&models.Unit{}).Where("id = ?", order.UnitID).
					Update("next_maintenance_date", scheduled).Error; err != nil {
					return err
				}
			}
		}

		if input.InvoiceNumber != nil && order.Status != models.StatusCreated && order.InvoiceID != nil {
			// Manual correction path: an already-assigned number may be
			// overwritten with a caller-supplied value.
			var invoice models.Invoice
			if err := tx.First(&invoice, "id = ?", *order.InvoiceID).Error; err != nil {
				return err
			}
			if invoice.Number != nil {
				if err := tx.Model(&invoice).Update("number", *input.InvoiceNumber).Error; err != nil {
					return err
				}
			}
		}

		if input.Notes != nil {
			order.Notes = *input.Notes
		}

		return tx.Omit(clause.Associations).Save(order).Error
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, workOrderID)
}

// Complete closes out a Scheduled job. It stamps the completion date,
// advances the unit's maintenance window by three calendar months, and for
// Service/Installation jobs auto-creates the follow-up Service order at the
// new next-maintenance date. Completing an unscheduled or already-completed
// order fails without touching any state.
func (s *WorkOrderService) Complete(ctx context.Context, workOrderID uuid.UUID) (*models.WorkOrder, *models.WorkOrder, error) {
	order, err := s.load(ctx, workOrderID)
	if err != nil {
		return nil, nil, err
	}

	switch order.Status {
	case models.StatusCreated:
		return nil, nil, preconditionf("work order %s has not been scheduled", order.Code)
	case models.StatusCompleted:
		return nil, nil, preconditionf("work order %s is already completed", order.Code)
	}

	today := utils.BeginningOfDay(time.Now())
	next := utils.AddMonths(today, 3)

	var followUp *models.WorkOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Status = models.StatusCompleted
		order.CompletedDate = &today
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Unit{}).Where("id = ?", order.UnitID).
			Updates(map[string]interface{}{
				"last_maintenance_date": today,
				"next_maintenance_date": next,
			}).Error; err != nil {
			return err
		}

		// Repairs do not recur; service and installation jobs schedule the
		// next maintenance visit.
		if order.Type == models.TypeService || order.Type == models.TypeInstallation {
			value, err := NextSequence(tx, SeqService)
			if err != nil {
				return err
			}
			followUp = &models.WorkOrder{
				Code:          utils.FormatCode(SeqService, value),
				Type:          models.TypeService,
				Status:        models.StatusCreated,
				ScheduledDate: &next,
				UnitID:        order.UnitID,
				CustomerID:    order.CustomerID,
			}
			return tx.Create(followUp).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, followUp, nil
}

// UploadImages delegates file persistence to the image-storage collaborator
// and appends the returned metadata. Status is untouched.
func (s *WorkOrderService) UploadImages(ctx context.Context, workOrderID uuid.UUID, files []*multipart.FileHeader, uploadedBy uuid.UUID) ([]models.WorkOrderImage, error) {
	if len(files) == 0 {
		return nil, validationf("at least one file is required")
	}

	order, err := s.load(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Upload(ctx, files, order.Customer.Name, order.Unit.SerialNumber, order.Code)
	if err != nil {
		return nil, err
	}

	images := make([]models.WorkOrderImage, 0, len(stored))
	for _, f := range stored {
		images = append(images, models.WorkOrderImage{
			WorkOrderID:  order.ID,
			StorageID:    f.ID,
			FileName:     f.FileName,
			MimeType:     f.MimeType,
			ViewURL:      f.ViewURL,
			DownloadURL:  f.DownloadURL,
			UploadedByID: uploadedBy,
			UploadedAt:   time.Now(),
		})
	}
	if err := s.db.WithContext(ctx).Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// DistributeTip splits a gratuity across the currently assigned employees by
// role and records each share plus the order's tip total.
func (s *WorkOrderService) DistributeTip(ctx context.Context, workOrderID uuid.UUID, amount float64) (*models.WorkOrder, error) {
	if amount < 0 {
		return nil, validationf("tip amount must not be negative")
	}

	order, err := s.load(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var technicians, helpers int
	for _, a := range order.Assignments {
		// Anyone not assigned as a helper splits with the technicians.
		if a.Role == models.RoleHelper {
			helpers++
		} else {
			technicians++
		}
	}
	perTechnician, perHelper := utils.AllocateTip(technicians, helpers, amount)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Assignments {
			share := perTechnician
			if order.Assignments[i].Role == models.RoleHelper {
				share = perHelper
			}
			if err := tx.Model(&models.WorkOrderAssignment{}).
				Where("id = ?", order.Assignments[i].ID).
				Update("tip_amount", share).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.WorkOrder{}).Where("id = ?", order.ID).
			Update("employee_tip_total", amount).Error
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, workOrderID)
}

// Get returns a fully loaded work order.
func (s *WorkOrderService) Get(ctx context.Context, workOrderID uuid.UUID) (*models.WorkOrder, error) {
	return s.load(ctx, workOrderID)
}

// List returns work orders, newest first, optionally filtered by status.
func (s *WorkOrderService) List(ctx context.Context, status *models.WorkOrderStatus) ([]models.WorkOrder, error) {
	query := s.db.WithContext(ctx).Preload("Unit").Preload("Customer").
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var orders []models.WorkOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *WorkOrderService) load(ctx context.Context, workOrderID uuid.UUID) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := s.db.WithContext(ctx).
		Preload("Unit").
		Preload("Customer").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Assignments.Employee").
		Preload("Images").
		First(&order, "id = ?", workOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("work order %s", workOrderID)
		}
		return nil, err
	}
	return &order, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return utils.BeginningOfDay(*a).Equal(utils.BeginningOfDay(*b))
}
