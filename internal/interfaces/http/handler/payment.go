package handler

import (
	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the payment endpoints
type PaymentHandler struct {
	BaseHandler
	payments *appinvoicing.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *appinvoicing.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Log handles POST /payments/log
func (h *PaymentHandler) Log(c *gin.Context) {
	var req LogPaymentRequest
	if !h.bind(c, &req) {
		return
	}

	payment, err := h.payments.LogPayment(c.Request.Context(), appinvoicing.LogPaymentRequest{
		InvoiceID: req.InvoiceID,
		Amount:    *req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		h.HandleCommandError(c, err)
		return
	}
	h.Success(c, payment)
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "payment")
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}
