package controllers

import (
	"net/http"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateWorkOrderInput defines the expected JSON structure for job intake
type CreateWorkOrderInput struct {
	UnitID        uuid.UUID  `json:"unitId" binding:"required"`
	Type          string     `json:"type" binding:"required,oneof=installation service repair"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Notes         string     `json:"notes"`
}

// UpdateWorkOrderInput defines the expected JSON structure for rescheduling
// and corrections
type UpdateWorkOrderInput struct {
	ScheduledDate *time.Time `json:"scheduledDate"`
	Type          *string    `json:"type" binding:"omitempty,oneof=installation service repair"`
	InvoiceNumber *string    `json:"invoiceNumber"`
	Notes         *string    `json:"notes"`
}

type AssignEmployeesInput struct {
	EmployeeIDs []uuid.UUID `json:"employeeIds" binding:"required,min=1"`
}

type DistributeTipInput struct {
	Amount *float64 `json:"amount" binding:"required"`
}

// CreateWorkOrder handles manual repair/installation intake
func CreateWorkOrder(c *gin.Context) {
	var input CreateWorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewWorkOrderService(config.DB)
	order, err := svc.Create(c.Request.Context(), services.CreateWorkOrderInput{
		UnitID:        input.UnitID,
		Type:          models.WorkOrderType(input.Type),
		ScheduledDate: input.ScheduledDate,
		Notes:         input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetWorkOrders lists work orders, optionally filtered by status
func GetWorkOrders(c *gin.Context) {
	var status *models.WorkOrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.WorkOrderStatus(raw)
		status = &s
	}

	svc := services.NewWorkOrderService(config.DB)
	orders, err := svc.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetWorkOrder retrieves one work order with assignments and images
func GetWorkOrder(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewWorkOrderService(config.DB)
	order, err := svc.Get(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateWorkOrder reschedules or corrects a work order
func UpdateWorkOrder(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var input UpdateWorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	update := services.UpdateWorkOrderInput{
		ScheduledDate: input.ScheduledDate,
		InvoiceNumber: input.InvoiceNumber,
		Notes:         input.Notes,
	}
	if input.Type != nil {
		t := models.WorkOrderType(*input.Type)
		update.Type = &t
	}

	svc := services.NewWorkOrderService(config.DB)
	order, err := svc.UpdateDetails(c.Request.Context(), workOrderID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// AssignEmployees replaces the work order's assignment list
func AssignEmployees(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var input AssignEmployeesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewWorkOrderService(config.DB)
	order, err := svc.AssignEmployees(c.Request.Context(), workOrderID, input.EmployeeIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CompleteWorkOrder closes out a scheduled job and returns the auto-created
// follow-up, if any
func CompleteWorkOrder(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewWorkOrderService(config.DB)
	order, followUp, err := svc.Complete(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workOrder": order,
		"followUp":  followUp,
	})
}

// DistributeTip splits a gratuity across the assigned employees
func DistributeTip(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var input DistributeTipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Tip amount is required")
		return
	}

	svc := services.NewWorkOrderService(config.DB)
	order, err := svc.DistributeTip(c.Request.Context(), workOrderID, *input.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UploadWorkOrderImages forwards evidence photos to the image-storage
// collaborator and appends the returned metadata
func UploadWorkOrderImages(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	uploadedBy, ok := currentEmployeeID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["files"]

	svc := services.NewWorkOrderService(config.DB)
	images, err := svc.UploadImages(c.Request.Context(), workOrderID, files, uploadedBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, images)
}
