package handler

import (
	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler serves the receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	receipts *appinvoicing.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *appinvoicing.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Generate handles POST /receipts/generate
func (h *ReceiptHandler) Generate(c *gin.Context) {
	var req GenerateReceiptRequest
	if !h.bind(c, &req) {
		return
	}

	receipt, err := h.receipts.GenerateReceipt(c.Request.Context(), appinvoicing.GenerateReceiptRequest{
		InvoiceID: req.InvoiceID,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		h.HandleCommandError(c, err)
		return
	}
	h.Success(c, receipt)
}

// GetByID handles GET /receipts/:id
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "receipt")
	if !ok {
		return
	}

	receipt, err := h.receipts.GetReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, receipt)
}
