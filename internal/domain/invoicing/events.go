package invoicing

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeReceipt = "Receipt"
)

// Event type names
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoicePaid          = "InvoicePaid"
	EventTypePaymentLogged        = "PaymentLogged"
	EventTypeReceiptIssued        = "ReceiptIssued"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID int64                `json:"invoice_id"`
	ClientID  string               `json:"client_id"`
	Amount    decimal.Decimal      `json:"amount"`
	Currency  valueobject.Currency `json:"currency"`
	Status    InvoiceStatus        `json:"status"`
	IssueDate time.Time            `json:"issue_date"`
	DueDate   time.Time            `json:"due_date"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice, now time.Time) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, now),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		Amount:          inv.Amount,
		Currency:        inv.Currency,
		Status:          inv.Status,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
	}
}

// InvoiceStatusChangedEvent is raised whenever the status value changes,
// whether set explicitly or derived after a payment
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      int64         `json:"invoice_id"`
	ClientID       string        `json:"client_id"`
	PreviousStatus InvoiceStatus `json:"previous_status"`
	NewStatus      InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, previous InvoiceStatus, now time.Time) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, now),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		PreviousStatus:  previous,
		NewStatus:       inv.Status,
	}
}

// PaymentLoggedEvent is raised when a payment is applied to an invoice
type PaymentLoggedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       int64             `json:"invoice_id"`
	PaymentID       int64             `json:"payment_id"`
	ClientID        string            `json:"client_id"`
	Amount          valueobject.Money `json:"amount"`
	Method          PaymentMethod     `json:"method"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
}

// NewPaymentLoggedEvent creates a new PaymentLoggedEvent
func NewPaymentLoggedEvent(inv *Invoice, payment *Payment) *PaymentLoggedEvent {
	return &PaymentLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentLogged, AggregateTypeInvoice, inv.ID, payment.PaymentDate),
		InvoiceID:       inv.ID,
		PaymentID:       payment.ID,
		ClientID:        inv.ClientID,
		Amount:          valueobject.NewMoneyOf(payment.Amount, inv.Currency),
		Method:          payment.Method,
		RemainingAmount: inv.RemainingAmount(),
	}
}

// InvoicePaidEvent is raised when payments first cover the full invoice amount
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID    int64             `json:"invoice_id"`
	ClientID     string            `json:"client_id"`
	Amount       valueobject.Money `json:"amount"`
	PaymentCount int               `json:"payment_count"`
	PaidAt       time.Time         `json:"paid_at"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice, now time.Time) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, now),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		Amount:          inv.AmountMoney(),
		PaymentCount:    len(inv.Payments),
		PaidAt:          now,
	}
}

// ReceiptIssuedEvent is raised when a receipt is generated
type ReceiptIssuedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     int64           `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     int64           `json:"invoice_id"`
	PaymentID     int64           `json:"payment_id"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
}

// NewReceiptIssuedEvent creates a new ReceiptIssuedEvent
func NewReceiptIssuedEvent(r *Receipt) *ReceiptIssuedEvent {
	return &ReceiptIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptIssued, AggregateTypeReceipt, r.ID, r.IssueDate),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		InvoiceID:       r.InvoiceID,
		PaymentID:       r.PaymentID,
		ClientID:        r.ClientID,
		Amount:          r.Amount,
		Method:          r.Method,
	}
}
