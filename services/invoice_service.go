// services/invoice_service.go
package services

import (
	"context"
	"errors"

	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceService lazily materializes invoices for work orders, accumulates
// charges, manages cross-job linking and the open/closed lifecycle. An
// invoice is only ever created through ensure (constructor-or-fetch); no
// call site re-implements the lazy init.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

type ChargeInput struct {
	Description string  `json:"description"`
	NetAmount   float64 `json:"netAmount"`
	GrossAmount float64 `json:"grossAmount"`
}

type InvoiceItemInput struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	NetPrice   float64 `json:"netPrice"`
	GrossPrice float64 `json:"grossPrice"`
}

type RecordChargesInput struct {
	Items              []InvoiceItemInput
	ServiceCharge      ChargeInput
	LabourCharge       ChargeInput
	TransportCharge    ChargeInput
	OtherCharge        ChargeInput
	DiscountPercentage *float64

	// NumberedOrigins lists the billing-origin work-order types whose
	// invoices consume an invoice number immediately at creation; all other
	// origins stay unnumbered until closing.
	NumberedOrigins []models.WorkOrderType
}

// EnsureInvoice fetches the work order's invoice, creating and linking one
// if none exists yet.
func (s *InvoiceService) EnsureInvoice(ctx context.Context, workOrderID uuid.UUID, numberedOrigins ...models.WorkOrderType) (*models.Invoice, error) {
	order, err := s.loadWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var invoice *models.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err = s.ensure(tx, order, originNumbered(order.Type, numberedOrigins))
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.loadInvoice(ctx, invoice.ID)
}

// RecordCharges replaces the invoice's line items and all four charge
// categories wholesale and recomputes every derived total. The net grand
// total is never discounted.
func (s *InvoiceService) RecordCharges(ctx context.Context, workOrderID uuid.UUID, input RecordChargesInput) (*models.Invoice, error) {
	order, err := s.loadWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var invoiceID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.ensure(tx, order, originNumbered(order.Type, input.NumberedOrigins))
		if err != nil {
			return err
		}
		if invoice.Status == models.InvoiceClosed {
			return preconditionf("invoice for work order %s is closed", order.Code)
		}
		invoiceID = invoice.ID

		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}

		var itemsGross, itemsNet float64
		for _, item := range input.Items {
			record := models.InvoiceItem{
				InvoiceID:  invoice.ID,
				Name:       item.Name,
				Quantity:   item.Quantity,
				NetPrice:   item.NetPrice,
				GrossPrice: item.GrossPrice,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			itemsGross += float64(item.Quantity) * item.GrossPrice
			itemsNet += float64(item.Quantity) * item.NetPrice
		}

		charges := []ChargeInput{input.ServiceCharge, input.LabourCharge, input.TransportCharge, input.OtherCharge}
		var chargesGross, chargesNet float64
		for _, ch := range charges {
			chargesGross += ch.GrossAmount
			chargesNet += ch.NetAmount
		}

		preDiscount := itemsGross + chargesGross
		var discountAmount float64
		if input.DiscountPercentage != nil {
			discountAmount = preDiscount * (*input.DiscountPercentage / 100)
		}

		invoice.ServiceCharge = models.Charge(input.ServiceCharge)
		invoice.LabourCharge = models.Charge(input.LabourCharge)
		invoice.TransportCharge = models.Charge(input.TransportCharge)
		invoice.OtherCharge = models.Charge(input.OtherCharge)
		invoice.DiscountPercentage = input.DiscountPercentage
		invoice.DiscountAmount = discountAmount
		invoice.GrandNetTotal = itemsNet + chargesNet
		invoice.GrandTotal = preDiscount - discountAmount

		return tx.Omit(clause.Associations).Save(invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return s.loadInvoice(ctx, invoiceID)
}

// LinkWorkOrders diffs the desired linked-job set against the invoice's
// current one: newly added jobs start pointing at this invoice, removed jobs
// lose their reference. No charge computation happens at link time.
func (s *InvoiceService) LinkWorkOrders(ctx context.Context, anchorID uuid.UUID, desired []uuid.UUID) (*models.Invoice, error) {
	anchor, err := s.loadWorkOrder(ctx, anchorID)
	if err != nil {
		return nil, err
	}

	var invoiceID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.ensure(tx, anchor, false)
		if err != nil {
			return err
		}
		invoiceID = invoice.ID

		var current []models.WorkOrder
		if err := tx.Where("invoice_id = ? AND id <> ?", invoice.ID, anchor.ID).
			Find(&current).Error; err != nil {
			return err
		}
		currentSet := make(map[uuid.UUID]bool, len(current))
		for _, wo := range current {
			currentSet[wo.ID] = true
		}
		desiredSet := make(map[uuid.UUID]bool, len(desired))
		for _, id := range desired {
			if id != anchor.ID {
				desiredSet[id] = true
			}
		}

		for id := range desiredSet {
			if currentSet[id] {
				continue
			}
			result := tx.Model(&models.WorkOrder{}).Where("id = ?", id).
				Update("invoice_id", invoice.ID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return notFoundf("work order %s", id)
			}
		}
		for id := range currentSet {
			if desiredSet[id] {
				continue
			}
			if err := tx.Model(&models.WorkOrder{}).Where("id = ?", id).
				Update("invoice_id", nil).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadInvoice(ctx, invoiceID)
}

// Close consumes one invoice-number sequence value and applies the formatted
// number plus Closed status to every invoice referenced by the work order's
// linked-job set, in a single bulk update inside one transaction. Closing an
// already-closed invoice fails and keeps the first number.
func (s *InvoiceService) Close(ctx context.Context, workOrderID uuid.UUID) (*models.Invoice, error) {
	order, err := s.loadWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if order.InvoiceID == nil {
		return nil, notFoundf("invoice for work order %s", order.Code)
	}

	invoice, err := s.loadInvoice(ctx, *order.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceClosed {
		return nil, preconditionf("invoice %s is already closed", displayNumber(invoice))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		value, err := NextSequence(tx, SeqInvoice)
		if err != nil {
			return err
		}
		number := utils.FormatCode(SeqInvoice, value)

		// A multi-job invoice closes atomically across all its members:
		// every invoice referenced from the linked-job set gets the same
		// number and status in one statement.
		memberInvoices := tx.Model(&models.WorkOrder{}).
			Distinct("invoice_id").
			Where("invoice_id = ?", *order.InvoiceID)

		return tx.Model(&models.Invoice{}).
			Where("id IN (?)", memberInvoices).
			Updates(map[string]interface{}{
				"number": number,
				"status": models.InvoiceClosed,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.loadInvoice(ctx, invoice.ID)
}

// Get returns the invoice linked to a work order.
func (s *InvoiceService) Get(ctx context.Context, workOrderID uuid.UUID) (*models.Invoice, error) {
	order, err := s.loadWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if order.InvoiceID == nil {
		return nil, notFoundf("invoice for work order %s", order.Code)
	}
	return s.loadInvoice(ctx, *order.InvoiceID)
}

// Document assembles the fully computed single-job view for the renderer.
func (s *InvoiceService) Document(ctx context.Context, workOrderID uuid.UUID) (*InvoiceDocument, error) {
	order, err := s.loadWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if order.InvoiceID == nil {
		return nil, notFoundf("invoice for work order %s", order.Code)
	}
	invoice, err := s.loadInvoice(ctx, *order.InvoiceID)
	if err != nil {
		return nil, err
	}

	var unit models.Unit
	if err := s.db.WithContext(ctx).First(&unit, "id = ?", order.UnitID).Error; err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", order.CustomerID).Error; err != nil {
		return nil, err
	}

	return &InvoiceDocument{
		Customer:  customer,
		Unit:      unit,
		WorkOrder: *order,
		Invoice:   *invoice,
	}, nil
}

// CombinedDocument assembles the aggregated multi-job view. Totals are
// summed over the distinct invoices of the linked-job set so the renderer
// never does arithmetic.
func (s *InvoiceService) CombinedDocument(ctx context.Context, anchorID uuid.UUID) (*CombinedInvoiceDocument, error) {
	anchor, err := s.loadWorkOrder(ctx, anchorID)
	if err != nil {
		return nil, err
	}
	if anchor.InvoiceID == nil {
		return nil, notFoundf("invoice for work order %s", anchor.Code)
	}
	invoice, err := s.loadInvoice(ctx, *anchor.InvoiceID)
	if err != nil {
		return nil, err
	}

	var members []models.WorkOrder
	if err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Order("code ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", anchor.CustomerID).Error; err != nil {
		return nil, err
	}

	doc := &CombinedInvoiceDocument{
		Customer:        customer,
		AnchorWorkOrder: *anchor,
		Invoice:         *invoice,
	}
	seen := make(map[uuid.UUID]bool)
	for _, m := range members {
		var completed *string
		if m.CompletedDate != nil {
			formatted := m.CompletedDate.Format("2006-01-02")
			completed = &formatted
		}
		doc.Members = append(doc.Members, MemberBilling{
			Code:          m.Code,
			Type:          m.Type,
			CompletedDate: completed,
			GrandTotal:    invoice.GrandTotal,
			GrandNetTotal: invoice.GrandNetTotal,
		})
		if m.InvoiceID != nil && !seen[*m.InvoiceID] {
			seen[*m.InvoiceID] = true
			doc.GrandTotal += invoice.GrandTotal
			doc.GrandNetTotal += invoice.GrandNetTotal
		}
	}
	return doc, nil
}

// ensure is the single constructor-or-fetch path for invoices. When the work
// order has no invoice yet, one is created and linked bidirectionally;
// eagerNumber controls whether the invoice-number sequence is consumed right
// away (billing origins on the allow-list) or left until closing.
func (s *InvoiceService) ensure(tx *gorm.DB, order *models.WorkOrder, eagerNumber bool) (*models.Invoice, error) {
	if order.InvoiceID != nil {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", *order.InvoiceID).Error; err != nil {
			return nil, err
		}
		return &invoice, nil
	}

	invoice := models.Invoice{Status: models.InvoiceOpen}
	if eagerNumber {
		value, err := NextSequence(tx, SeqInvoice)
		if err != nil {
			return nil, err
		}
		number := utils.FormatCode(SeqInvoice, value)
		invoice.Number = &number
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&models.WorkOrder{}).Where("id = ?", order.ID).
		Update("invoice_id", invoice.ID).Error; err != nil {
		return nil, err
	}
	order.InvoiceID = &invoice.ID
	return &invoice, nil
}

func (s *InvoiceService) loadWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := s.db.WithContext(ctx).First(&order, "id = ?", workOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("work order %s", workOrderID)
		}
		return nil, err
	}
	return &order, nil
}

func (s *InvoiceService) loadInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("LinkedWorkOrders").
		First(&invoice, "id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("invoice %s", invoiceID)
		}
		return nil, err
	}
	return &invoice, nil
}

func originNumbered(origin models.WorkOrderType, allowed []models.WorkOrderType) bool {
	for _, t := range allowed {
		if t == origin {
			return true
		}
	}
	return false
}

func displayNumber(invoice *models.Invoice) string {
	if invoice.Number != nil {
		return *invoice.Number
	}
	return invoice.ID.String()
}
