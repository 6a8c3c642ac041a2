package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"not null;uniqueIndex"`
	Email   string
	Address string
	Notes   string

	IsActive bool `gorm:"default:true"`

	Units      []Unit      `gorm:"foreignKey:CustomerID"`
	WorkOrders []WorkOrder `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
