package invoicing

import (
	"time"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// ===================== Requests =====================

// CreateInvoiceRequest holds the values of a new invoice
type CreateInvoiceRequest struct {
	ClientID  string
	Amount    decimal.Decimal
	IssueDate time.Time
	DueDate   time.Time
	Status    string
}

// UpdateInvoiceStatusRequest overwrites the status of an invoice
type UpdateInvoiceStatusRequest struct {
	InvoiceID int64
	Status    string
}

// LogPaymentRequest records a payment against an invoice
type LogPaymentRequest struct {
	InvoiceID int64
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// GenerateReceiptRequest issues a receipt for a logged payment
type GenerateReceiptRequest struct {
	InvoiceID int64
	PaymentID int64
}

// InvoiceReportRequest selects the invoices of a summary report
type InvoiceReportRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	ClientID  string
}

// ===================== Responses =====================

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	Reference   string          `json:"reference,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              int64             `json:"id"`
	ClientID        string            `json:"client_id"`
	Amount          decimal.Decimal   `json:"amount"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
	Currency        string            `json:"currency"`
	IssueDate       time.Time         `json:"issue_date"`
	DueDate         time.Time         `json:"due_date"`
	Status          string            `json:"status"`
	Payments        []PaymentResponse `json:"payments"`
}

// InvoiceStatusResponse carries the current status of an invoice
type InvoiceStatusResponse struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            int64           `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     int64           `json:"invoice_id"`
	PaymentID     int64           `json:"payment_id"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	IssueDate     time.Time       `json:"issue_date"`
}

// ReportFiltersResponse echoes the filters of a report
type ReportFiltersResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
}

// SummaryItemResponse is one invoice line of a report
type SummaryItemResponse struct {
	InvoiceID       int64           `json:"invoice_id"`
	ClientID        string          `json:"client_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	IssueDate       time.Time       `json:"issue_date"`
	DueDate         time.Time       `json:"due_date"`
}

// ReportStatisticsResponse aggregates a report
type ReportStatisticsResponse struct {
	TotalInvoices    int             `json:"total_invoices"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	StatusBreakdown  map[string]int  `json:"status_breakdown"`
}

// InvoiceReportResponse is a generated summary report.
// EmptyMessage describes the filters when no invoice matched.
type InvoiceReportResponse struct {
	GeneratedAt  time.Time                `json:"generated_at"`
	Filters      ReportFiltersResponse    `json:"filters"`
	Items        []SummaryItemResponse    `json:"items"`
	Statistics   ReportStatisticsResponse `json:"statistics"`
	EmptyMessage string                   `json:"-"`
}

// IsEmpty returns true if no invoice matched the report filters
func (r *InvoiceReportResponse) IsEmpty() bool {
	return len(r.Items) == 0
}

// ===================== Conversions =====================

// ToPaymentResponse converts a domain Payment to a response
func ToPaymentResponse(p *invoicing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Method:      p.Method.String(),
		PaymentDate: p.PaymentDate,
		Reference:   p.Reference,
	}
}

// ToPaymentResponses converts payments preserving their order
func ToPaymentResponses(payments []*invoicing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(p)
	}
	return responses
}

// ToInvoiceResponse converts a domain Invoice to a response snapshot
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	paid := inv.PaidAmount()
	return InvoiceResponse{
		ID:              inv.ID,
		ClientID:        inv.ClientID,
		Amount:          inv.Amount,
		PaidAmount:      paid,
		RemainingAmount: inv.Amount.Sub(paid),
		Currency:        inv.Currency.String(),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Status:          inv.Status.String(),
		Payments:        ToPaymentResponses(inv.Payments),
	}
}

// ToReceiptResponse converts a domain Receipt to a response
func ToReceiptResponse(r *invoicing.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		InvoiceID:     r.InvoiceID,
		PaymentID:     r.PaymentID,
		ClientID:      r.ClientID,
		Amount:        r.Amount,
		Method:        r.Method.String(),
		IssueDate:     r.IssueDate,
	}
}

// ToInvoiceReportResponse converts a domain Report to a response
func ToInvoiceReportResponse(report *invoicing.Report, filter invoicing.ReportFilter) InvoiceReportResponse {
	items := make([]SummaryItemResponse, len(report.Items))
	for i, item := range report.Items {
		items[i] = SummaryItemResponse{
			InvoiceID:       item.InvoiceID,
			ClientID:        item.ClientID,
			Amount:          item.Amount,
			PaidAmount:      item.PaidAmount,
			RemainingAmount: item.RemainingAmount,
			Status:          item.Status.String(),
			IssueDate:       item.IssueDate,
			DueDate:         item.DueDate,
		}
	}

	breakdown := make(map[string]int, len(report.Statistics.StatusBreakdown))
	for status, count := range report.Statistics.StatusBreakdown {
		breakdown[status.String()] = count
	}

	resp := InvoiceReportResponse{
		GeneratedAt: report.GeneratedAt,
		Filters: ReportFiltersResponse{
			StartDate: report.Filters.StartDate,
			EndDate:   report.Filters.EndDate,
			Status:    report.Filters.Status,
			ClientID:  report.Filters.ClientID,
		},
		Items: items,
		Statistics: ReportStatisticsResponse{
			TotalInvoices:    report.Statistics.TotalInvoices,
			TotalAmount:      report.Statistics.TotalAmount,
			TotalPaid:        report.Statistics.TotalPaid,
			TotalOutstanding: report.Statistics.TotalOutstanding,
			StatusBreakdown:  breakdown,
		},
	}
	if report.IsEmpty() {
		resp.EmptyMessage = filter.EmptyResultMessage()
	}
	return resp
}
