package controllers

import (
	"errors"
	"net/http"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUnitInput defines the expected JSON structure for registering a unit
type CreateUnitInput struct {
	CustomerID    uuid.UUID  `json:"customerId" binding:"required"`
	Brand         string     `json:"brand" binding:"required"`
	ModelName     string     `json:"model"`
	SerialNumber  string     `json:"serialNumber" binding:"required"`
	InstalledDate *time.Time `json:"installedDate"`
}

// UpdateUnitInput defines the expected JSON structure for updating a unit
type UpdateUnitInput struct {
	Brand         *string            `json:"brand"`
	ModelName     *string            `json:"model"`
	SerialNumber  *string            `json:"serialNumber"`
	InstalledDate *time.Time         `json:"installedDate"`
	Status        *models.UnitStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateUnit registers an appliance for a customer and mints its QR label
// code from the qr sequence
func CreateUnit(c *gin.Context) {
	var input CreateUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var existingUnit models.Unit
	if err := config.DB.Where("serial_number = ?", input.SerialNumber).
		First(&existingUnit).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Unit with this serial number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var unit models.Unit
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		value, err := services.NextSequence(tx, services.SeqQR)
		if err != nil {
			return err
		}
		unit = models.Unit{
			CustomerID:    customer.ID,
			Brand:         input.Brand,
			ModelName:     input.ModelName,
			SerialNumber:  input.SerialNumber,
			InstalledDate: input.InstalledDate,
			Status:        models.UnitActive,
			QRCodeRef:     utils.FormatCode(services.SeqQR, value),
		}
		return tx.Create(&unit).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create unit")
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// GetUnits retrieves all units, optionally filtered by customer
func GetUnits(c *gin.Context) {
	query := config.DB.Preload("Customer")
	if customerID := c.Query("customerId"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var units []models.Unit
	if err := query.Find(&units).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve units")
		return
	}

	c.JSON(http.StatusOK, units)
}

// GetUnit retrieves a specific unit by ID with its service history
func GetUnit(c *gin.Context) {
	unitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid unit ID format")
		return
	}

	var unit models.Unit
	if err := config.DB.Preload("Customer").Preload("WorkOrders").
		First(&unit, "id = ?", unitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Unit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, unit)
}

// UpdateUnit updates a unit's descriptive fields. Maintenance dates are
// owned by work-order completion and rescheduling, never set directly.
func UpdateUnit(c *gin.Context) {
	unitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid unit ID format")
		return
	}

	var input UpdateUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", unitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Unit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Brand != nil {
		unit.Brand = *input.Brand
	}
	if input.ModelName != nil {
		unit.ModelName = *input.ModelName
	}
	if input.SerialNumber != nil {
		unit.SerialNumber = *input.SerialNumber
	}
	if input.InstalledDate != nil {
		unit.InstalledDate = input.InstalledDate
	}
	if input.Status != nil {
		unit.Status = *input.Status
	}

	if err := config.DB.Save(&unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update unit")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// DeleteUnit soft deletes a unit
func DeleteUnit(c *gin.Context) {
	unitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid unit ID format")
		return
	}

	var unit models.Unit
	if err := config.DB.First(&unit, "id = ?", unitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Unit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}
