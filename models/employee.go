package models

import (
	"time"

	"fieldpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRole string

const (
	RoleAdmin      EmployeeRole = "admin"
	RoleTechnician EmployeeRole = "technician"
	RoleHelper     EmployeeRole = "helper"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`
	Phone    string

	Role EmployeeRole `gorm:"type:varchar(20);not null"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(e.Password)
	if err != nil {
		return err
	}
	e.Password = hashed
	return
}
