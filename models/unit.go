package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitStatus string

const (
	UnitActive   UnitStatus = "active"
	UnitInactive UnitStatus = "inactive"
)

// Unit is a single serviced appliance owned by exactly one customer.
// NextMaintenanceDate is the scheduling anchor for recurring service and is
// only advanced by work-order completion or rescheduling.
type Unit struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Brand        string `gorm:"not null"`
	ModelName    string
	SerialNumber string `gorm:"not null;uniqueIndex"`

	InstalledDate       *time.Time
	LastMaintenanceDate *time.Time
	NextMaintenanceDate *time.Time

	Status UnitStatus `gorm:"type:varchar(20);default:'active'"`

	// QRCodeRef is the human-readable code printed on the unit's QR label,
	// minted from the "qr" sequence. The label image itself lives with the
	// image-storage collaborator.
	QRCodeRef string

	Customer   Customer    `gorm:"foreignKey:CustomerID"`
	WorkOrders []WorkOrder `gorm:"foreignKey:UnitID"`

	gorm.Model
}

func (u *Unit) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
