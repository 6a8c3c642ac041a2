// services/renderer.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"fieldpro-backend/models"
)

// InvoiceDocument carries everything the renderer needs for a single-job
// invoice. All totals are already computed; the renderer does no arithmetic.
type InvoiceDocument struct {
	Customer  models.Customer  `json:"customer"`
	Unit      models.Unit      `json:"unit"`
	WorkOrder models.WorkOrder `json:"workOrder"`
	Invoice   models.Invoice   `json:"invoice"`
}

// MemberBilling is one job's slice of a combined invoice.
type MemberBilling struct {
	Code          string               `json:"code"`
	Type          models.WorkOrderType `json:"type"`
	CompletedDate *string              `json:"completedDate"`
	GrandTotal    float64              `json:"grandTotal"`
	GrandNetTotal float64              `json:"grandNetTotal"`
}

// CombinedInvoiceDocument is the aggregated view for a multi-job invoice.
type CombinedInvoiceDocument struct {
	Customer        models.Customer  `json:"customer"`
	AnchorWorkOrder models.WorkOrder `json:"anchorWorkOrder"`
	Invoice         models.Invoice   `json:"invoice"`
	Members         []MemberBilling  `json:"members"`
	GrandTotal      float64          `json:"grandTotal"`
	GrandNetTotal   float64          `json:"grandNetTotal"`
}

// DocumentRenderer is the narrow contract for the external rendering
// service that turns computed invoice data into a byte stream (PDF).
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	RenderCombinedInvoice(ctx context.Context, doc CombinedInvoiceDocument) ([]byte, error)
}

type rendererClient struct {
	baseURL string
	client  *http.Client
}

func NewRendererClient() DocumentRenderer {
	return &rendererClient{
		baseURL: os.Getenv("RENDERER_SERVICE_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *rendererClient) RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	return r.post(ctx, "/render/invoice", doc)
}

func (r *rendererClient) RenderCombinedInvoice(ctx context.Context, doc CombinedInvoiceDocument) ([]byte, error) {
	return r.post(ctx, "/render/combined-invoice", doc)
}

func (r *rendererClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("document render failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document renderer returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
