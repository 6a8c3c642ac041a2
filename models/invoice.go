package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceOpen   InvoiceStatus = "open"
	InvoiceClosed InvoiceStatus = "closed"
)

// Charge is one of the four fixed charge categories on an invoice. The net
// amount tracks internal cost and is never discounted.
type Charge struct {
	Description string
	NetAmount   float64 `gorm:"type:decimal(10,2);default:0.0"`
	GrossAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
}

// Invoice is the billing record for one or more linked work orders. Number
// stays nil until the invoice sequence is consumed (eagerly for some billing
// origins, otherwise at close). Work orders link to it via their InvoiceID;
// the linked-job set of an invoice is every work order pointing at it.
type Invoice struct {
	ID     uuid.UUID     `gorm:"type:uuid;primary_key"`
	Number *string       `gorm:"uniqueIndex"`
	Status InvoiceStatus `gorm:"type:varchar(20);default:'open'"`

	ServiceCharge   Charge `gorm:"embedded;embeddedPrefix:service_"`
	LabourCharge    Charge `gorm:"embedded;embeddedPrefix:labour_"`
	TransportCharge Charge `gorm:"embedded;embeddedPrefix:transport_"`
	OtherCharge     Charge `gorm:"embedded;embeddedPrefix:other_"`

	DiscountPercentage *float64 `gorm:"type:decimal(5,2)"`
	DiscountAmount     float64  `gorm:"type:decimal(10,2);default:0.0"`

	GrandNetTotal float64 `gorm:"type:decimal(10,2);default:0.0"`
	GrandTotal    float64 `gorm:"type:decimal(10,2);default:0.0"`

	Items            []InvoiceItem `gorm:"foreignKey:InvoiceID"`
	LinkedWorkOrders []WorkOrder   `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string `gorm:"not null"`
	Quantity   int    `gorm:"default:1"`
	NetPrice   float64 `gorm:"type:decimal(10,2);default:0.0"`
	GrossPrice float64 `gorm:"type:decimal(10,2);not null"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
