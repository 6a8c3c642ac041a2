// controllers/invoice.go
package controllers

import (
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Repairs are billed on the spot, so their invoices consume a number at
// creation; service and installation invoices stay unnumbered until closing.
var numberedBillingOrigins = []models.WorkOrderType{models.TypeRepair}

// RecordChargesInput defines the expected JSON structure for recording
// charges against a work order's invoice
type RecordChargesInput struct {
	Items              []services.InvoiceItemInput `json:"items"`
	ServiceCharge      services.ChargeInput        `json:"serviceCharge"`
	LabourCharge       services.ChargeInput        `json:"labourCharge"`
	TransportCharge    services.ChargeInput        `json:"transportCharge"`
	OtherCharge        services.ChargeInput        `json:"otherCharge"`
	DiscountPercentage *float64                    `json:"discountPercentage" binding:"omitempty,min=0,max=100"`
}

type LinkWorkOrdersInput struct {
	WorkOrderIDs []uuid.UUID `json:"workOrderIds" binding:"required"`
}

// GetWorkOrderInvoice returns the invoice linked to a work order
func GetWorkOrderInvoice(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewInvoiceService(config.DB)
	invoice, err := svc.Get(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// RecordCharges replaces the invoice's items and charges and recomputes
// totals, creating the invoice lazily on first write
func RecordCharges(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var input RecordChargesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewInvoiceService(config.DB)
	invoice, err := svc.RecordCharges(c.Request.Context(), workOrderID, services.RecordChargesInput{
		Items:              input.Items,
		ServiceCharge:      input.ServiceCharge,
		LabourCharge:       input.LabourCharge,
		TransportCharge:    input.TransportCharge,
		OtherCharge:        input.OtherCharge,
		DiscountPercentage: input.DiscountPercentage,
		NumberedOrigins:    numberedBillingOrigins,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// LinkWorkOrders sets the desired linked-job set for the anchor work
// order's invoice
func LinkWorkOrders(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var input LinkWorkOrdersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewInvoiceService(config.DB)
	invoice, err := svc.LinkWorkOrders(c.Request.Context(), workOrderID, input.WorkOrderIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// CloseInvoice closes the work order's invoice, assigning its final number
func CloseInvoice(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewInvoiceService(config.DB)
	invoice, err := svc.Close(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// RenderInvoiceDocument streams the rendered single-job invoice
func RenderInvoiceDocument(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewInvoiceService(config.DB)
	doc, err := svc.Document(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderer := services.NewRendererClient()
	pdf, err := renderer.RenderInvoice(c.Request.Context(), *doc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Document renderer unavailable")
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdf)
}

// RenderCombinedInvoiceDocument streams the rendered multi-job invoice
func RenderCombinedInvoiceDocument(c *gin.Context) {
	workOrderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	svc := services.NewInvoiceService(config.DB)
	doc, err := svc.CombinedDocument(c.Request.Context(), workOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	renderer := services.NewRendererClient()
	pdf, err := renderer.RenderCombinedInvoice(c.Request.Context(), *doc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Document renderer unavailable")
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdf)
}
