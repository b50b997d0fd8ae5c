package handler

import (
	"errors"
	"io"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves the invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *appinvoicing.InvoiceService
	reports  *appinvoicing.ReportService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *appinvoicing.InvoiceService, reports *appinvoicing.ReportService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, reports: reports}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !h.bind(c, &req) {
		return
	}

	invoice, err := h.invoices.CreateInvoice(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.ListInvoices(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoices)
}

// UpdateStatus handles PUT /invoices/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req UpdateInvoiceStatusRequest
	if !h.bind(c, &req) {
		return
	}

	invoice, err := h.invoices.UpdateStatus(c.Request.Context(), appinvoicing.UpdateInvoiceStatusRequest{
		InvoiceID: req.InvoiceID,
		Status:    req.Status,
	})
	if err != nil {
		h.HandleCommandError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetStatus handles GET /invoices/:id/status
func (h *InvoiceHandler) GetStatus(c *gin.Context) {
	id, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	status, err := h.invoices.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleCommandError(c, err)
		return
	}
	h.Success(c, status)
}

// GetPaymentHistory handles GET /invoices/:id/payment-history
func (h *InvoiceHandler) GetPaymentHistory(c *gin.Context) {
	id, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	history, err := h.invoices.GetPaymentHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleCommandError(c, err)
		return
	}
	h.Success(c, history)
}

// GenerateReport handles POST /invoices/report. An empty body means no filters.
// A report without matching invoices is answered with 404 and a message
// describing the filters.
func (h *InvoiceHandler) GenerateReport(c *gin.Context) {
	var req InvoiceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	report, err := h.reports.GenerateSummary(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if report.IsEmpty() {
		h.NotFound(c, report.EmptyMessage)
		return
	}
	h.Success(c, report)
}
