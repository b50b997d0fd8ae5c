package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when decoding a Date
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date accepts RFC 3339 timestamps, zone-less timestamps and plain
// YYYY-MM-DD dates. Values without a zone are read as UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", raw)
}

// timePtr returns nil for an absent date
func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// CreateInvoiceRequest is the body of POST /invoices
type CreateInvoiceRequest struct {
	ClientID  string           `json:"client_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	IssueDate *Date            `json:"issue_date" binding:"required"`
	DueDate   *Date            `json:"due_date" binding:"required"`
	Status    string           `json:"status" binding:"omitempty,invoice_status"`
}

func (r CreateInvoiceRequest) toApp() appinvoicing.CreateInvoiceRequest {
	return appinvoicing.CreateInvoiceRequest{
		ClientID:  r.ClientID,
		Amount:    *r.Amount,
		IssueDate: r.IssueDate.Time,
		DueDate:   r.DueDate.Time,
		Status:    r.Status,
	}
}

// UpdateInvoiceStatusRequest is the body of PUT /invoices/status
type UpdateInvoiceStatusRequest struct {
	InvoiceID int64  `json:"invoice_id" binding:"required,min=1"`
	Status    string `json:"status" binding:"required,invoice_status"`
}

// InvoiceReportRequest is the body of POST /invoices/report. Every field is optional.
type InvoiceReportRequest struct {
	StartDate *Date  `json:"start_date"`
	EndDate   *Date  `json:"end_date"`
	Status    string `json:"status" binding:"omitempty,invoice_status"`
	ClientID  string `json:"client_id"`
}

func (r InvoiceReportRequest) toApp() appinvoicing.InvoiceReportRequest {
	return appinvoicing.InvoiceReportRequest{
		StartDate: r.StartDate.timePtr(),
		EndDate:   r.EndDate.timePtr(),
		Status:    r.Status,
		ClientID:  r.ClientID,
	}
}

// LogPaymentRequest is the body of POST /payments/log
type LogPaymentRequest struct {
	InvoiceID int64            `json:"invoice_id" binding:"required,min=1"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	Method    string           `json:"method" binding:"required,payment_method"`
	Reference string           `json:"reference" binding:"max=128"`
}

// GenerateReceiptRequest is the body of POST /receipts/generate
type GenerateReceiptRequest struct {
	InvoiceID int64 `json:"invoice_id" binding:"required,min=1"`
	PaymentID int64 `json:"payment_id" binding:"required,min=1"`
}
