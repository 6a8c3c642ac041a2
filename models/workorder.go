package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkOrderType string

const (
	TypeInstallation WorkOrderType = "installation"
	TypeService      WorkOrderType = "service"
	TypeRepair       WorkOrderType = "repair"
)

type WorkOrderStatus string

const (
	StatusCreated   WorkOrderStatus = "created"
	StatusScheduled WorkOrderStatus = "scheduled"
	StatusCompleted WorkOrderStatus = "completed"
)

// WorkOrder is one maintenance/repair/installation job against a unit.
// Code is minted from the sequence matching Type and never user-supplied.
type WorkOrder struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"uniqueIndex;not null"`

	Type   WorkOrderType   `gorm:"type:varchar(20);not null"`
	Status WorkOrderStatus `gorm:"type:varchar(20);default:'created'"`

	ScheduledDate *time.Time
	CompletedDate *time.Time

	UnitID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	EmployeeTipTotal float64 `gorm:"type:decimal(10,2);default:0.0"`

	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Notes string

	Unit        Unit                  `gorm:"foreignKey:UnitID"`
	Customer    Customer              `gorm:"foreignKey:CustomerID"`
	Assignments []WorkOrderAssignment `gorm:"foreignKey:WorkOrderID"`
	Images      []WorkOrderImage      `gorm:"foreignKey:WorkOrderID"`

	gorm.Model
}

func (w *WorkOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}

// WorkOrderAssignment is one (employee, tip) pair on a work order. Position
// preserves the order the employees were assigned in.
type WorkOrderAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;index;not null"`

	// Role is copied from the employee at assignment time so later role
	// changes do not rewrite past tip splits.
	Role      EmployeeRole `gorm:"type:varchar(20);not null"`
	TipAmount float64      `gorm:"type:decimal(10,2);default:0.0"`
	Position  int          `gorm:"not null;default:0"`

	Employee Employee `gorm:"foreignKey:EmployeeID"`
}

func (a *WorkOrderAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// WorkOrderImage is evidence metadata returned by the image-storage
// collaborator; the file itself is never persisted here.
type WorkOrderImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;index;not null"`

	StorageID   string `gorm:"not null"`
	FileName    string
	MimeType    string
	ViewURL     string
	DownloadURL string

	UploadedByID uuid.UUID `gorm:"type:uuid"`
	UploadedAt   time.Time
}

func (i *WorkOrderImage) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
