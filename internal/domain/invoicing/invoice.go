package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusUnpaid    InvoiceStatus = "Unpaid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// AllInvoiceStatuses returns every valid status in declaration order
func AllInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusUnpaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
}

// IsValid checks if the status is a valid InvoiceStatus (case-sensitive)
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid,
		InvoiceStatusUnpaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// ParseInvoiceStatus converts a raw value into an InvoiceStatus
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	status := InvoiceStatus(value)
	if !status.IsValid() {
		return "", shared.NewInvalidArgumentError(fmt.Sprintf(
			"Invalid invoice status: %s. Valid values are: %s", value, joinStatuses(AllInvoiceStatuses())))
	}
	return status, nil
}

func joinStatuses(statuses []InvoiceStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Invoice is the aggregate root for a billable amount owed by a client.
// Paid and remaining amounts are always derived from the owned payments.
type Invoice struct {
	shared.BaseAggregateRoot
	ID        int64
	ClientID  string
	Amount    decimal.Decimal
	Currency  valueobject.Currency
	IssueDate time.Time
	DueDate   time.Time
	Status    InvoiceStatus
	Payments  []*Payment
}

// GetID returns the invoice ID
func (i *Invoice) GetID() int64 {
	return i.ID
}

// InvoiceTerms holds the caller-supplied values of a new invoice
type InvoiceTerms struct {
	ClientID  string
	Amount    decimal.Decimal
	Currency  valueobject.Currency
	IssueDate time.Time
	DueDate   time.Time
	Status    string
}

// Validate checks the terms and returns the resolved initial status.
// An empty status defaults to Draft.
func (t InvoiceTerms) Validate() (InvoiceStatus, error) {
	if strings.TrimSpace(t.ClientID) == "" {
		return "", shared.NewInvalidArgumentError("Client ID cannot be empty")
	}
	if !t.Amount.IsPositive() {
		return "", shared.NewInvalidArgumentError("Amount must be greater than zero")
	}
	if t.DueDate.Before(t.IssueDate) {
		return "", shared.NewInvalidArgumentError("Due date cannot be earlier than issue date")
	}
	if t.Status == "" {
		return InvoiceStatusDraft, nil
	}
	return ParseInvoiceStatus(t.Status)
}

// NewInvoice creates a new invoice with the store-assigned id
func NewInvoice(id int64, terms InvoiceTerms, now time.Time) (*Invoice, error) {
	status, err := terms.Validate()
	if err != nil {
		return nil, err
	}
	currency := terms.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	inv := &Invoice{
		ID:        id,
		ClientID:  terms.ClientID,
		Amount:    terms.Amount,
		Currency:  currency,
		IssueDate: terms.IssueDate,
		DueDate:   terms.DueDate,
		Status:    status,
		Payments:  make([]*Payment, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv, now))

	return inv, nil
}

// PaidAmount returns the sum of all payments applied to the invoice
func (i *Invoice) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingAmount returns the amount still owed
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount())
}

// AmountMoney returns the invoice total as Money
func (i *Invoice) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyOf(i.Amount, i.Currency)
}

// SetStatus overwrites the status. Any status may move to any other.
func (i *Invoice) SetStatus(value string, now time.Time) error {
	status, err := ParseInvoiceStatus(value)
	if err != nil {
		return err
	}
	i.changeStatus(status, now)
	return nil
}

func (i *Invoice) changeStatus(status InvoiceStatus, now time.Time) {
	if i.Status == status {
		return
	}
	previous := i.Status
	i.Status = status
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, previous, now))
}

// ValidatePayment checks a prospective payment against the invoice without
// mutating it and returns the canonical payment method.
func (i *Invoice) ValidatePayment(amount decimal.Decimal, method string) (PaymentMethod, error) {
	pm, err := ParsePaymentMethod(method)
	if err != nil {
		return "", err
	}
	if !amount.IsPositive() {
		return "", shared.NewInvalidArgumentError("Payment amount must be greater than zero")
	}
	remaining := i.RemainingAmount()
	if amount.GreaterThan(remaining) {
		return "", shared.NewInvalidArgumentError(fmt.Sprintf(
			"Payment amount ($%s) exceeds the remaining amount ($%s) for invoice ID %d",
			amount.StringFixed(2), remaining.StringFixed(2), i.ID))
	}
	return pm, nil
}

// ApplyPayment records a payment against the invoice and re-derives the status.
// Nothing is mutated when validation fails.
func (i *Invoice) ApplyPayment(paymentID int64, amount decimal.Decimal, method, reference string, now time.Time) (*Payment, error) {
	pm, err := i.ValidatePayment(amount, method)
	if err != nil {
		return nil, err
	}

	payment := &Payment{
		ID:          paymentID,
		InvoiceID:   i.ID,
		Amount:      amount,
		Method:      pm,
		PaymentDate: now,
		Reference:   reference,
	}
	i.Payments = append(i.Payments, payment)
	i.AddDomainEvent(NewPaymentLoggedEvent(i, payment))

	previous := i.Status
	i.changeStatus(i.deriveStatus(now), now)
	if previous != InvoiceStatusPaid && i.Status == InvoiceStatusPaid {
		i.AddDomainEvent(NewInvoicePaidEvent(i, now))
	}

	return payment, nil
}

// deriveStatus applies the post-payment rule: a fully paid invoice is Paid
// regardless of its prior status; a partially paid Unpaid or Overdue invoice
// is Overdue once its due date has passed and Unpaid otherwise; every other
// status is left as is.
func (i *Invoice) deriveStatus(now time.Time) InvoiceStatus {
	if i.PaidAmount().GreaterThanOrEqual(i.Amount) {
		return InvoiceStatusPaid
	}
	if i.Status == InvoiceStatusOverdue || i.Status == InvoiceStatusUnpaid {
		if i.DueDate.Before(now) {
			return InvoiceStatusOverdue
		}
		return InvoiceStatusUnpaid
	}
	return i.Status
}

// FindPayment returns the owned payment with the given id
func (i *Invoice) FindPayment(paymentID int64) (*Payment, bool) {
	for _, p := range i.Payments {
		if p.ID == paymentID {
			return p, true
		}
	}
	return nil, false
}

// PaymentHistory returns the payments ordered by payment date, newest first
func (i *Invoice) PaymentHistory() []*Payment {
	history := make([]*Payment, len(i.Payments))
	copy(history, i.Payments)
	sortPaymentsNewestFirst(history)
	return history
}

// InvoiceNotFoundMessage is the message used when an invoice id does not resolve
func InvoiceNotFoundMessage(id int64) string {
	return fmt.Sprintf("Invoice with ID %d not found", id)
}
